package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// PlainTextStyle renders text with an optional prefix and no styling.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a new plain text style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

// Render implements TextStyle.Render.
func (p *PlainTextStyle) Render(text string) string {
	return p.prefix + text
}

// PlainStyleProvider implements StyleProvider with semantic prefixes only.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle implements StyleProvider.GetStyle.
func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticSuccess:
		return NewPlainTextStyle("✓ ")
	case SemanticWarning:
		return NewPlainTextStyle("⚠ ")
	case SemanticError:
		return NewPlainTextStyle("✗ ")
	case SemanticInfo:
		return NewPlainTextStyle("ℹ ")
	default:
		return NewPlainTextStyle("")
	}
}

// IsAvailable implements StyleProvider.IsAvailable.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}

// LipglossStyleProvider implements StyleProvider with terminal colors.
type LipglossStyleProvider struct {
	styles map[SemanticType]lipgloss.Style
}

// NewLipglossStyleProvider creates the default color theme.
func NewLipglossStyleProvider() *LipglossStyleProvider {
	return &LipglossStyleProvider{
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			SemanticWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			SemanticError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticKey:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			SemanticValue:   lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		},
	}
}

// GetStyle implements StyleProvider.GetStyle.
func (l *LipglossStyleProvider) GetStyle(semantic string) TextStyle {
	if style, ok := l.styles[SemanticType(semantic)]; ok {
		return lipglossTextStyle{style: style}
	}
	return lipglossTextStyle{style: lipgloss.NewStyle()}
}

// lipglossTextStyle adapts lipgloss.Style to TextStyle.
type lipglossTextStyle struct {
	style lipgloss.Style
}

func (s lipglossTextStyle) Render(text string) string {
	return s.style.Render(text)
}

// IsAvailable implements StyleProvider.IsAvailable.
func (l *LipglossStyleProvider) IsAvailable() bool {
	return true
}

// String returns a string representation for debugging.
func (l *LipglossStyleProvider) String() string {
	return fmt.Sprintf("LipglossStyleProvider{styles: %d}", len(l.styles))
}
