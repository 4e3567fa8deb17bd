package builtin

import (
	"context"
	"fmt"
	"strconv"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// StatusCommand implements the \status command showing remembered cycle positions.
type StatusCommand struct {
	Printer *output.Printer
}

// Name returns the command name "status" for registration and lookup.
func (c *StatusCommand) Name() string {
	return "status"
}

// Description returns a brief description of what the status command does.
func (c *StatusCommand) Description() string {
	return "Show remembered cycle positions"
}

// Usage returns the syntax for the status command.
func (c *StatusCommand) Usage() string {
	return "\\status"
}

// HelpInfo returns structured help information for the status command.
func (c *StatusCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Notes:       []string{"Positions are the index of the last applied snapshot, starting at 0"},
	}
}

// Execute lists cache entries sorted by cycle identity.
func (c *StatusCommand) Execute(_ context.Context, _ map[string]string, _ string) error {
	cyclerService, err := services.GetGlobalCyclerService()
	if err != nil {
		return fmt.Errorf("cycler service not available: %w", err)
	}

	entries, err := cyclerService.Entries()
	if err != nil {
		return err
	}

	p := printerOr(c.Printer)
	if len(entries) == 0 {
		p.Info("No cycles have run yet")
		return nil
	}
	for _, entry := range entries {
		p.KeyValue(entry.ID, strconv.Itoa(entry.Index))
	}
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&StatusCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register status command: %v", err))
	}
}
