package builtin

import (
	"context"
	"fmt"
	"strings"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// SetCommand implements the \set command for writing a literal setting value.
type SetCommand struct {
	Printer *output.Printer
}

// Name returns the command name "set" for registration and lookup.
func (c *SetCommand) Name() string {
	return "set"
}

// Description returns a brief description of what the set command does.
func (c *SetCommand) Description() string {
	return "Write a setting value"
}

// Usage returns the syntax for the set command.
func (c *SetCommand) Usage() string {
	return "\\set[key=name, scope=workspace|global] value or \\set key value"
}

// HelpInfo returns structured help information for the set command.
func (c *SetCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Options: []cyclertypes.HelpOption{
			{Name: "key", Description: "Setting key", Required: true, Type: "string"},
			{Name: "scope", Description: "workspace or global", Type: "string", Default: "workspace"},
		},
		Examples: []cyclertypes.HelpExample{
			{Command: `\set editor.fontSize 14`, Description: "Set the workspace font size"},
			{Command: `\set[key=editor.rulers, scope=global] [80, 120]`, Description: "Set a global array value"},
		},
		Notes: []string{"Values are read as JSON when possible, otherwise as plain strings"},
	}
}

// Execute writes the value. Directives are not resolved; use \cycle for that.
func (c *SetCommand) Execute(ctx context.Context, args map[string]string, input string) error {
	key := args["key"]
	raw := strings.TrimSpace(input)
	if key == "" {
		fields := strings.SplitN(raw, " ", 2)
		key = fields[0]
		raw = ""
		if len(fields) > 1 {
			raw = strings.TrimSpace(fields[1])
		}
	}
	if key == "" || raw == "" {
		return fmt.Errorf("Usage: %s", c.Usage())
	}

	scope, err := parseScope(args["scope"])
	if err != nil {
		return err
	}

	settingsService, err := services.GetGlobalSettingsService()
	if err != nil {
		return fmt.Errorf("settings service not available: %w", err)
	}

	value := parseLiteral(raw)
	if err := settingsService.Set(ctx, key, value, scope); err != nil {
		return err
	}

	printerOr(c.Printer).Success(fmt.Sprintf("%s = %s (%s)", key, formatValue(value), scope))
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&SetCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register set command: %v", err))
	}
}
