// Package main provides the settings cycler CLI application entry point.
// The cycler steps editor settings through a sequence of snapshots, one
// invocation at a time, remembering where each cycle left off.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"settingscycler/internal/commands"
	"settingscycler/internal/logger"
	"settingscycler/internal/orchestration"
	"settingscycler/internal/services"
	"settingscycler/internal/shell"
	"settingscycler/internal/version"
)

// scriptExtension is required for batch scripts.
const scriptExtension = ".cycle"

var (
	logLevel string
	logFile  string
	testMode bool

	cycleArgs   string
	cycleFile   string
	cycleID     string
	cycleGlobal bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cycler",
	Short: "Settings Cycler - step editor settings through snapshots",
	Long: `Cycler applies the next snapshot of a settings cycle on each invocation.
Payloads are JSON: a snapshot object, a list of snapshots, or a wrapper
with values, id and global. Directives $inc, $dec and $toggle adjust
numeric and boolean settings in place.`,
	Run: runShell, // Default behavior is to run the interactive shell
}

// shellCmd represents the shell command (explicit version of default behavior)
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	Long:  `Start the interactive cycler shell. JSON lines are cycled, other lines run bindings.`,
	Run:   runShell,
}

// batchCmd represents the batch command for non-interactive script execution
var batchCmd = &cobra.Command{
	Use:   "batch <script" + scriptExtension + ">",
	Short: "Execute a " + scriptExtension + " script file in batch mode",
	Long: `Execute a script of shell lines in one process, so cycle positions carry
from one line to the next. Execution stops at the first failing line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Apply the next snapshot of a payload",
	Long: `Apply the next snapshot of a JSON payload given with --args or read from --file.
Cycle positions only persist for the life of the process, so a one-shot
cycle always starts from the position recovered from current settings.`,
	Args: cobra.NoArgs,
	RunE: runCycle,
}

var runCmd = &cobra.Command{
	Use:   "run <binding>",
	Short: "Apply the next snapshot of a named binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOneShot(cmd.Context(), "run", nil, args[0])
	},
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show the layered values of a setting, or every effective setting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOneShot(cmd.Context(), "get", nil, strings.Join(args, " "))
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, services.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.StringVar(&logFile, services.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.BoolVar(&testMode, services.KeyTestMode, false, "Run in deterministic test mode")
	flags.String(services.KeyWorkspace, "", "Workspace directory [default: current directory]")
	flags.Bool(services.KeyMemory, false, "Keep settings in memory instead of settings files")
	flags.Int(services.KeyCacheSize, 0, "Maximum remembered cycles, 0 for unbounded")
	flags.String(services.KeyBindingsFile, "", "Bindings file [default: <workspace>/.cycler/bindings.yaml]")
	flags.String(services.KeyGlobalSettings, "", "Global settings file")
	flags.String(services.KeyDefaultsFile, "", "Additional defaults file merged over the built-in defaults")
	flags.String(services.KeyLanguage, "", "Language whose [language] settings sections apply")
	flags.String(services.KeyOutput, "auto", "Output format (auto|plain|json|silent)")

	for _, key := range []string{
		services.KeyLogLevel, services.KeyLogFile, services.KeyTestMode,
		services.KeyWorkspace, services.KeyMemory, services.KeyCacheSize,
		services.KeyBindingsFile, services.KeyGlobalSettings, services.KeyDefaultsFile,
		services.KeyLanguage, services.KeyOutput,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", key, err)
			os.Exit(1)
		}
	}

	cycleCmd.Flags().StringVar(&cycleArgs, "args", "", "JSON payload")
	cycleCmd.Flags().StringVar(&cycleFile, "file", "", "Read the JSON payload from a file")
	cycleCmd.Flags().StringVar(&cycleID, "id", "", "Cycle id overriding the derived one")
	cycleCmd.Flags().BoolVar(&cycleGlobal, "global", false, "Write to global settings")
	cycleCmd.MarkFlagsMutuallyExclusive("args", "file")
	cycleCmd.MarkFlagsOneRequired("args", "file")

	versionCmd.Flags().BoolP("verbose", "v", false, "Show build details")

	rootCmd.AddCommand(shellCmd, batchCmd, cycleCmd, runCmd, getCmd, versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(viper.GetString(services.KeyLogLevel), viper.GetString(services.KeyLogFile), viper.GetBool(services.KeyTestMode)); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runShell(cmd *cobra.Command, _ []string) {
	logger.Info("Starting settings cycler", "version", version.GetVersion())

	if err := shell.InitializeServices(nil, nil); err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}
	logger.Info("Services initialized successfully")

	ctx := cmd.Context()
	if bindingService, err := services.GetGlobalBindingService(); err == nil {
		if err := bindingService.Watch(ctx); err != nil {
			logger.Warn("Bindings will not reload on change", "error", err)
		}
	}

	handler := shell.NewHandler(commands.GlobalRegistry, nil)

	sh := ishell.New()
	sh.SetPrompt("cycler> ")

	// Remove built-in commands so they reach the cycler's own help and bindings
	sh.DeleteCmd("help")

	sh.Println(version.GetFormattedVersion())
	sh.Println("Type '\\help' for commands, a JSON payload to cycle it, or a binding name to run it.")

	sh.NotFound(handler.ProcessInput)

	sh.Run()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]

	logger.Info("Starting batch mode", "version", version.GetVersion(), "script", scriptPath)

	if err := validateScriptFile(scriptPath); err != nil {
		return err
	}
	if err := shell.InitializeServices(nil, nil); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := orchestration.ExecuteScript(cmd.Context(), commands.GlobalRegistry, scriptPath); err != nil {
		return err
	}

	logger.Info("Script executed successfully", "script", scriptPath)
	return nil
}

func validateScriptFile(scriptPath string) error {
	info, err := os.Stat(scriptPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat script file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("script path is a directory: %s", scriptPath)
	}

	if ext := filepath.Ext(scriptPath); ext != scriptExtension {
		return fmt.Errorf("script file must have %s extension, got: %s", scriptExtension, ext)
	}
	return nil
}

func runCycle(cmd *cobra.Command, _ []string) error {
	payload := cycleArgs
	if cycleFile != "" {
		data, err := os.ReadFile(cycleFile)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		payload = string(data)
	}

	options := cycleOptions(cmd)
	return runOneShot(cmd.Context(), "cycle", options, strings.TrimSpace(payload))
}

// cycleOptions turns the flags the user actually set into command options.
func cycleOptions(cmd *cobra.Command) map[string]string {
	options := make(map[string]string)
	if cmd.Flags().Changed("id") {
		options["id"] = cycleID
	}
	if cmd.Flags().Changed("global") {
		options["global"] = fmt.Sprintf("%t", cycleGlobal)
	}
	return options
}

func runOneShot(ctx context.Context, name string, options map[string]string, input string) error {
	if err := shell.InitializeServices(nil, nil); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := shell.NewHandler(commands.GlobalRegistry, nil).Run(ctx, name, options, input); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// reportedError marks a failure the handler already showed to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
