package builtin

import (
	"context"
	"fmt"

	"settingscycler/internal/commands"
	"settingscycler/internal/output"
	"settingscycler/pkg/cyclertypes"
)

// HelpCommand implements the \help command for displaying available commands and usage information.
type HelpCommand struct {
	Printer  *output.Printer
	Registry *commands.Registry // nil means the global registry
}

// Name returns the command name "help" for registration and lookup.
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns a brief description of what the help command does.
func (c *HelpCommand) Description() string {
	return "Show command help"
}

// Usage returns the syntax for the help command.
func (c *HelpCommand) Usage() string {
	return "\\help or \\help[command]"
}

// HelpInfo returns structured help information for the help command.
func (c *HelpCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []cyclertypes.HelpExample{
			{Command: `\help`, Description: "List all commands"},
			{Command: `\help cycle`, Description: "Show options and examples for \\cycle"},
		},
	}
}

// Execute lists all commands, or details one command when named.
func (c *HelpCommand) Execute(_ context.Context, args map[string]string, input string) error {
	registry := c.Registry
	if registry == nil {
		registry = commands.GlobalRegistry
	}
	p := printerOr(c.Printer)

	if name := subject(args, input); name != "" {
		cmd, ok := registry.Get(name)
		if !ok {
			return fmt.Errorf("command '%s' not found. Use \\help to see all available commands", name)
		}
		c.showCommandHelp(p, cmd.HelpInfo())
		return nil
	}

	p.Println("Settings Cycler Commands:")
	for _, cmd := range registry.GetAll() {
		p.Printf("  %-12s - %s", cmd.Name(), cmd.Description())
	}
	p.Println("")
	p.Println("Lines starting with { or [ are cycled; other plain words run a binding.")
	p.Println("Use \\help[command] for detailed help on a specific command.")
	return nil
}

func (c *HelpCommand) showCommandHelp(p *output.Printer, info cyclertypes.HelpInfo) {
	p.KeyValue("Command", info.Command)
	p.KeyValue("Description", info.Description)
	p.KeyValue("Usage", info.Usage)

	if len(info.Options) > 0 {
		p.Println("Options:")
		for _, opt := range info.Options {
			line := fmt.Sprintf("  %-8s %-7s %s", opt.Name, opt.Type, opt.Description)
			if opt.Required {
				line += " (required)"
			}
			if opt.Default != "" {
				line += fmt.Sprintf(" [default: %s]", opt.Default)
			}
			p.Println(line)
		}
	}

	if len(info.Examples) > 0 {
		p.Println("Examples:")
		for _, ex := range info.Examples {
			p.Printf("  %s", ex.Command)
			p.Printf("      %s", ex.Description)
		}
	}

	for _, note := range info.Notes {
		p.Info(note)
	}
}

func init() {
	if err := commands.GlobalRegistry.Register(&HelpCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register help command: %v", err))
	}
}
