package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// GetCommand implements the \get command for inspecting a setting.
// It supports both bracket syntax (\get[key]) and space syntax (\get key).
type GetCommand struct {
	Printer *output.Printer
}

// Name returns the command name "get" for registration and lookup.
func (c *GetCommand) Name() string {
	return "get"
}

// Description returns a brief description of what the get command does.
func (c *GetCommand) Description() string {
	return "Show a setting in every scope, or all effective settings"
}

// Usage returns the syntax for the get command.
func (c *GetCommand) Usage() string {
	return "\\get[key], \\get key or \\get"
}

// HelpInfo returns structured help information for the get command.
func (c *GetCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Options: []cyclertypes.HelpOption{
			{Name: "key", Description: "Setting key, e.g. editor.fontSize; omit to list every effective setting", Type: "string"},
		},
		Examples: []cyclertypes.HelpExample{
			{Command: `\get editor.fontSize`, Description: "Show the default, global, workspace and effective font size"},
			{Command: `\get`, Description: "List the effective value of every setting"},
		},
	}
}

// Execute prints each layer of the requested key.
func (c *GetCommand) Execute(ctx context.Context, args map[string]string, input string) error {
	settingsService, err := services.GetGlobalSettingsService()
	if err != nil {
		return fmt.Errorf("settings service not available: %w", err)
	}

	key := subject(args, input)
	if key == "" {
		return c.listCurrent(ctx, settingsService)
	}

	result, known, err := settingsService.Inspect(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", key, err)
	}

	p := printerOr(c.Printer)
	if !known {
		p.Warning(fmt.Sprintf("%s is not a known setting", key))
		return nil
	}

	effective, _ := result.Effective()
	p.KeyValue(key, formatValue(effective))

	layers := []struct {
		name  string
		value cyclertypes.Value
	}{
		{"default", result.DefaultValue},
		{"global", result.GlobalValue},
		{"workspace", result.WorkspaceValue},
		{"default (language)", result.DefaultLanguageValue},
		{"global (language)", result.GlobalLanguageValue},
		{"workspace (language)", result.WorkspaceLanguageValue},
	}
	for _, layer := range layers {
		if layer.value.Set {
			p.KeyValue("  "+layer.name, formatValue(layer.value.V))
		}
	}

	if len(result.LanguageIDs) > 0 {
		p.KeyValue("  languages", strings.Join(result.LanguageIDs, ", "))
	}
	return nil
}

// listCurrent prints the merged effective settings sorted by key.
func (c *GetCommand) listCurrent(ctx context.Context, settingsService *services.SettingsService) error {
	current, err := settingsService.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current settings: %w", err)
	}

	p := printerOr(c.Printer)
	if len(current) == 0 {
		p.Info("No settings defined")
		return nil
	}

	keys := current.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		p.KeyValue(k, formatValue(current[k]))
	}
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&GetCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register get command: %v", err))
	}
}
