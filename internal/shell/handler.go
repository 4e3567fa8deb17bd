// Package shell provides the interactive shell interface and input processing for the cycler.
// It integrates the command system with the ishell interactive environment and handles user input routing.
package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/spf13/viper"

	"settingscycler/internal/commands"
	_ "settingscycler/internal/commands/builtin" // Import for side effects (init functions)
	"settingscycler/internal/cycler"
	"settingscycler/internal/logger"
	"settingscycler/internal/orchestration"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

// Handler routes shell lines to the command registry and reports failures.
type Handler struct {
	registry *commands.Registry
	printer  *output.Printer
}

// NewHandler creates a handler. A nil registry selects the global registry;
// a nil printer follows output.Default.
func NewHandler(registry *commands.Registry, printer *output.Printer) *Handler {
	if registry == nil {
		registry = commands.GlobalRegistry
	}
	return &Handler{registry: registry, printer: printer}
}

func (h *Handler) out() *output.Printer {
	if h.printer != nil {
		return h.printer
	}
	return output.Default()
}

// ProcessInput handles user input from the interactive shell and executes commands.
func (h *Handler) ProcessInput(c *ishell.Context) {
	if len(c.RawArgs) == 0 {
		return
	}
	h.Execute(context.Background(), strings.Join(c.RawArgs, " "))
}

// Execute runs one line and prints any failure. It returns the error so
// callers can decide on an exit status.
func (h *Handler) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)

	return h.report(line, orchestration.ExecuteLine(ctx, h.registry, line))
}

// Run executes a command by name, bypassing line parsing. The CLI uses it
// for one-shot subcommands whose input may span several lines.
func (h *Handler) Run(ctx context.Context, name string, args map[string]string, input string) error {
	logger.CommandExecution(name, args)
	return h.report(name, h.registry.Execute(ctx, name, args, input))
}

func (h *Handler) report(line string, err error) error {
	if err == nil {
		return nil
	}

	logger.Error("Command failed", "command", line, "error", err)

	// Rejected payloads were already shown by the cycler's notifier.
	if errors.Is(err, cycler.ErrInvalidRequest) || errors.Is(err, cycler.ErrEmptyRequest) {
		return err
	}

	h.out().Error("Error: " + err.Error())
	if !strings.Contains(strings.ToLower(line), "help") {
		h.out().Println("Type \\help for available commands")
	}
	return err
}

// InitializeServices registers and initializes the cycler services in the
// global registry. v supplies configuration; nil uses viper's global instance.
func InitializeServices(v *viper.Viper, notifier cyclertypes.Notifier) error {
	registry := services.GetGlobalRegistry()

	configuration := services.NewConfigurationService(v)
	settingsService := services.NewSettingsService(configuration)
	cyclerService := services.NewCyclerService(configuration, settingsService, notifier)
	bindingService := services.NewBindingService(configuration)

	for _, service := range []cyclertypes.Service{configuration, settingsService, cyclerService, bindingService} {
		if err := registry.RegisterService(service); err != nil {
			return err
		}
	}

	if err := registry.InitializeAll(); err != nil {
		return err
	}

	cfg, err := configuration.Config()
	if err != nil {
		return err
	}
	opts, err := output.ForFormat(cfg.Output)
	if err != nil {
		return err
	}
	output.SetDefault(output.NewPrinter(opts...))

	logger.Debug("Services initialized")
	return nil
}
