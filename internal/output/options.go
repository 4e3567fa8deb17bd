package output

import (
	"fmt"
	"io"
	"strings"
)

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithStyles configures the printer to use the provided StyleProvider for styling.
// If the provider is nil or not available, the printer falls back to plain text.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithWriter configures the printer to write output to the specified writer.
// Default is os.Stdout if not specified.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithMode configures the printer to operate in a specific output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// PlainText forces plain text output, ignoring any StyleProvider.
func PlainText() Option {
	return func(p *Printer) {
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// JSON configures the printer for structured JSON output.
func JSON() Option {
	return func(p *Printer) {
		p.mode = ModeJSON
	}
}

// Silent configures the printer to suppress all output.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}

// Output formats accepted by the output configuration key.
const (
	FormatAuto   = "auto"
	FormatPlain  = "plain"
	FormatJSON   = "json"
	FormatSilent = "silent"
)

// ForFormat returns the options selecting a named output format.
// An empty format is auto: styled when the terminal supports it.
func ForFormat(format string) ([]Option, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatAuto:
		return []Option{WithStyles(NewLipglossStyleProvider())}, nil
	case FormatPlain:
		return []Option{PlainText()}, nil
	case FormatJSON:
		return []Option{JSON()}, nil
	case FormatSilent:
		return []Option{Silent()}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want auto, plain, json or silent)", format)
}
