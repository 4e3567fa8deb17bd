package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Printer writes semantic output in plain, styled or JSON form.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool

	mu sync.Mutex
}

var (
	defaultMu      sync.RWMutex
	defaultPrinter *Printer
)

// Default returns the process-wide printer, a styled stdout printer unless
// SetDefault replaced it.
func Default() *Printer {
	defaultMu.RLock()
	p := defaultPrinter
	defaultMu.RUnlock()
	if p != nil {
		return p
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPrinter == nil {
		defaultPrinter = NewPrinter(WithStyles(NewLipglossStyleProvider()))
	}
	return defaultPrinter
}

// SetDefault replaces the process-wide printer. Nil restores the styled default.
func SetDefault(p *Printer) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultPrinter = p
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout in auto mode.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text)
}

// Printf outputs formatted text with a newline and no styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...))
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text)
}

// Success outputs success text.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text)
}

// Warning outputs warning text.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text)
}

// Error outputs error text.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text)
}

// KeyValue outputs a "key = value" line with key and value styling.
func (p *Printer) KeyValue(key string, value string) {
	if p.mode == ModeJSON {
		p.write(p.renderJSON(SemanticKey, key+" = "+value))
		return
	}
	p.write(p.style(SemanticKey, key) + " = " + p.style(SemanticValue, value) + "\n")
}

func (p *Printer) output(semantic SemanticType, text string) {
	if p.mode == ModeJSON {
		p.write(p.renderJSON(semantic, text))
		return
	}
	result := p.style(semantic, text)
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	p.write(result)
}

func (p *Printer) write(text string) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprint(p.writer, text)
}

func (p *Printer) style(semantic SemanticType, text string) string {
	if p.IsStylable() {
		return p.styleProvider.GetStyle(string(semantic)).Render(text)
	}
	return NewPlainStyleProvider().GetStyle(string(semantic)).Render(text)
}

func (p *Printer) renderJSON(semantic SemanticType, text string) string {
	jsonBytes, err := json.Marshal(map[string]interface{}{
		"type":    semantic,
		"message": text,
	})
	if err != nil {
		return text + "\n"
	}
	return string(jsonBytes) + "\n"
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	return !p.forcePlain && p.mode != ModePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}

// String returns a string representation for debugging.
func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.mode, hasStyles, p.writer)
}
