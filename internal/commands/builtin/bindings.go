package builtin

import (
	"context"
	"fmt"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// BindingsCommand implements the \bindings command listing named cycles.
type BindingsCommand struct {
	Printer *output.Printer
}

// Name returns the command name "bindings" for registration and lookup.
func (c *BindingsCommand) Name() string {
	return "bindings"
}

// Description returns a brief description of what the bindings command does.
func (c *BindingsCommand) Description() string {
	return "List named cycles"
}

// Usage returns the syntax for the bindings command.
func (c *BindingsCommand) Usage() string {
	return "\\bindings[reload]"
}

// HelpInfo returns structured help information for the bindings command.
func (c *BindingsCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Options: []cyclertypes.HelpOption{
			{Name: "reload", Description: "Re-read the bindings file first", Type: "bool", Default: "false"},
		},
	}
}

// Execute prints every binding with its description.
func (c *BindingsCommand) Execute(_ context.Context, args map[string]string, _ string) error {
	bindingService, err := services.GetGlobalBindingService()
	if err != nil {
		return fmt.Errorf("binding service not available: %w", err)
	}

	if _, ok := args["reload"]; ok {
		if err := bindingService.Reload(); err != nil {
			return fmt.Errorf("failed to reload bindings: %w", err)
		}
	}

	bindings, err := bindingService.List()
	if err != nil {
		return err
	}

	p := printerOr(c.Printer)
	if len(bindings) == 0 {
		p.Info(fmt.Sprintf("No bindings defined in %s", bindingService.Path()))
		return nil
	}
	for _, binding := range bindings {
		p.KeyValue(binding.Name, binding.Description)
	}
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&BindingsCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register bindings command: %v", err))
	}
}
