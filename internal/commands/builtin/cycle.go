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

// CycleCommand implements the \cycle command: it applies the next snapshot of
// an inline JSON payload.
type CycleCommand struct {
	Printer *output.Printer
}

// Name returns the command name "cycle" for registration and lookup.
func (c *CycleCommand) Name() string {
	return "cycle"
}

// Description returns a brief description of what the cycle command does.
func (c *CycleCommand) Description() string {
	return "Apply the next settings snapshot of a payload"
}

// Usage returns the syntax for the cycle command.
func (c *CycleCommand) Usage() string {
	return "\\cycle[id=name, global] <json payload>"
}

// HelpInfo returns structured help information for the cycle command.
func (c *CycleCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Options: []cyclertypes.HelpOption{
			{Name: "id", Description: "Name of the cycle; positions are remembered per name", Type: "string"},
			{Name: "global", Description: "Write to global settings instead of the workspace", Type: "bool", Default: "false"},
		},
		Examples: []cyclertypes.HelpExample{
			{Command: `\cycle [{"editor.fontSize": 12}, {"editor.fontSize": 16}]`, Description: "Alternate between two font sizes"},
			{Command: `\cycle {"editor.minimap.enabled": "$toggle"}`, Description: "Flip the minimap"},
			{Command: `\cycle[global] {"editor.fontSize": "$inc", "$step": 2, "$max": 24}`, Description: "Grow the global font size up to 24"},
		},
		Notes: []string{
			"A payload is a snapshot object, a list of snapshots, or an object with values, id and global",
			"Directives: $inc, $dec, $toggle; controls: $global, $step, $min, $max",
			"Lines starting with { or [ are cycled without typing \\cycle",
		},
	}
}

// Execute decodes the payload and applies its next snapshot.
func (c *CycleCommand) Execute(ctx context.Context, args map[string]string, input string) error {
	cyclerService, err := services.GetGlobalCyclerService()
	if err != nil {
		return fmt.Errorf("cycler service not available: %w", err)
	}

	opts, err := requestOptions(args)
	if err != nil {
		return err
	}

	result, err := cyclerService.CycleJSON(ctx, []byte(strings.TrimSpace(input)), opts...)
	if err != nil {
		return err
	}

	reportResult(printerOr(c.Printer), result)
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&CycleCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register cycle command: %v", err))
	}
}
