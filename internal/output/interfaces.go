// Package output provides console output for the settings cycler: a printer
// with plain, styled and JSON modes, and a notifier that shows user-facing
// messages through it.
package output

// StyleProvider supplies styles for semantic output types.
// The output package depends only on this interface, not on a concrete theme.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider is ready to provide styles.
	IsAvailable() bool
}

// TextStyle renders text with a style applied.
type TextStyle interface {
	Render(text string) string
}

// Mode defines different output modes the printer can operate in.
type Mode int

const (
	// ModeAuto uses styles when a provider is available
	ModeAuto Mode = iota

	// ModeStyled forces styled output
	ModeStyled

	// ModePlain forces plain text output
	ModePlain

	// ModeJSON outputs one JSON object per message
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"
	// SemanticKey represents a configuration key.
	SemanticKey SemanticType = "key"
	// SemanticValue represents a configuration value.
	SemanticValue SemanticType = "value"
)
