package builtin

import (
	"context"
	"fmt"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// RunCommand implements the \run command: it cycles a named binding.
type RunCommand struct {
	Printer *output.Printer
}

// Name returns the command name "run" for registration and lookup.
func (c *RunCommand) Name() string {
	return "run"
}

// Description returns a brief description of what the run command does.
func (c *RunCommand) Description() string {
	return "Cycle a named binding"
}

// Usage returns the syntax for the run command.
func (c *RunCommand) Usage() string {
	return "\\run <binding> or \\run[binding]"
}

// HelpInfo returns structured help information for the run command.
func (c *RunCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Options: []cyclertypes.HelpOption{
			{Name: "binding", Description: "Binding name from the bindings file", Required: true, Type: "string"},
			{Name: "global", Description: "Override the binding's global flag", Type: "bool"},
		},
		Examples: []cyclertypes.HelpExample{
			{Command: `\run font-size`, Description: "Apply the next snapshot of the font-size binding"},
			{Command: `font-size`, Description: "Same, without the command prefix"},
		},
		Notes: []string{"Bindings reload automatically when the bindings file changes"},
	}
}

// Execute cycles the named binding.
func (c *RunCommand) Execute(ctx context.Context, args map[string]string, input string) error {
	name := subject(args, input, "global")
	if name == "" {
		return fmt.Errorf("Usage: %s", c.Usage())
	}

	bindingService, err := services.GetGlobalBindingService()
	if err != nil {
		return fmt.Errorf("binding service not available: %w", err)
	}
	cyclerService, err := services.GetGlobalCyclerService()
	if err != nil {
		return fmt.Errorf("cycler service not available: %w", err)
	}

	req, err := bindingService.Request(name)
	if err != nil {
		return err
	}

	if raw, ok := args["global"]; ok {
		opts, err := requestOptions(map[string]string{"global": raw})
		if err != nil {
			return err
		}
		for _, opt := range opts {
			opt(req)
		}
	}

	result, err := cyclerService.Apply(ctx, req)
	if err != nil {
		return err
	}

	reportResult(printerOr(c.Printer), result)
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&RunCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register run command: %v", err))
	}
}
