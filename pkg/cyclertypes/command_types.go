package cyclertypes

// HelpInfo is the structured help a command provides for \help.
type HelpInfo struct {
	Command     string        `json:"command"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Options     []HelpOption  `json:"options,omitempty"`
	Examples    []HelpExample `json:"examples,omitempty"`
	Notes       []string      `json:"notes,omitempty"`
}

// HelpOption describes one bracket option of a command.
type HelpOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`              // string, bool, int, json
	Default     string `json:"default,omitempty"` // Default value if not specified
}

// HelpExample is a usage example with explanation.
type HelpExample struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}
