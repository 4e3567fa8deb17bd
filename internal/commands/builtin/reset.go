package builtin

import (
	"context"
	"fmt"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// ResetCommand implements the \reset command clearing remembered positions.
type ResetCommand struct {
	Printer *output.Printer
}

// Name returns the command name "reset" for registration and lookup.
func (c *ResetCommand) Name() string {
	return "reset"
}

// Description returns a brief description of what the reset command does.
func (c *ResetCommand) Description() string {
	return "Forget all cycle positions"
}

// Usage returns the syntax for the reset command.
func (c *ResetCommand) Usage() string {
	return "\\reset"
}

// HelpInfo returns structured help information for the reset command.
func (c *ResetCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Notes:       []string{"After a reset each cycle finds its position again from the current settings"},
	}
}

// Execute clears the index cache.
func (c *ResetCommand) Execute(_ context.Context, _ map[string]string, _ string) error {
	cyclerService, err := services.GetGlobalCyclerService()
	if err != nil {
		return fmt.Errorf("cycler service not available: %w", err)
	}
	if err := cyclerService.Reset(); err != nil {
		return err
	}
	printerOr(c.Printer).Success("Cycle positions cleared")
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&ResetCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register reset command: %v", err))
	}
}
