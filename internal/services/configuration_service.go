package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"settingscycler/internal/logger"
	"settingscycler/internal/output"
)

// EnvPrefix is the prefix for environment variables read by the configuration service.
const EnvPrefix = "CYCLER"

// appDirName is the directory under the user config dir holding cycler files.
const appDirName = "settings-cycler"

// Configuration keys shared by the CLI flags and the config file.
const (
	KeyLogLevel       = "log-level"
	KeyLogFile        = "log-file"
	KeyTestMode       = "test-mode"
	KeyWorkspace      = "workspace"
	KeyGlobalSettings = "global-settings"
	KeyDefaultsFile   = "defaults-file"
	KeyBindingsFile   = "bindings-file"
	KeyCacheSize      = "cache-size"
	KeyLanguage       = "language"
	KeyMemory         = "memory"
	KeyOutput         = "output"
)

// Config is the resolved configuration of a cycler process.
type Config struct {
	LogLevel          string
	LogFile           string
	TestMode          bool
	Workspace         string
	GlobalSettings    string
	WorkspaceSettings string
	DefaultsFile      string
	BindingsFile      string
	CacheSize         int
	Language          string
	Memory            bool
	Output            string
}

// ConfigPaths reports where configuration was looked for and what was found.
type ConfigPaths struct {
	ConfigDir      string
	ConfigFile     string // Config file used by viper, empty if none
	LocalEnvPath   string
	LocalEnvLoaded bool
}

// ConfigurationService resolves the process configuration.
// Priority (highest to lowest): flags > environment > local .env > config file > defaults.
type ConfigurationService struct {
	mu          sync.RWMutex
	v           *viper.Viper
	config      Config
	paths       ConfigPaths
	initialized bool
}

// NewConfigurationService creates a configuration service reading from v.
// A nil v uses viper's global instance, which is where CLI flags are bound.
func NewConfigurationService(v *viper.Viper) *ConfigurationService {
	if v == nil {
		v = viper.GetViper()
	}
	return &ConfigurationService{v: v}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads configuration from all sources.
func (c *ConfigurationService) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := c.load(); err != nil {
		return err
	}

	c.initialized = true
	logger.ServiceOperation("configuration", "initialized", "workspace", c.config.Workspace, "memory", c.config.Memory)
	return nil
}

// Reload re-reads every configuration source.
func (c *ConfigurationService) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return ErrServiceNotInitialized
	}
	return c.load()
}

// Config returns the resolved configuration.
func (c *ConfigurationService) Config() (Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return Config{}, ErrServiceNotInitialized
	}
	return c.config, nil
}

// GetConfigurationPaths returns configuration file paths and their loading status.
func (c *ConfigurationService) GetConfigurationPaths() (ConfigPaths, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return ConfigPaths{}, ErrServiceNotInitialized
	}
	return c.paths, nil
}

// GetConfigValue returns the raw value of a configuration key as a string.
func (c *ConfigurationService) GetConfigValue(key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return "", ErrServiceNotInitialized
	}
	return c.v.GetString(key), nil
}

func (c *ConfigurationService) load() error {
	v := c.v
	testMode := v.GetBool(KeyTestMode)

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = ""
	} else {
		configDir = filepath.Join(configDir, appDirName)
	}
	c.paths = ConfigPaths{ConfigDir: configDir}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCacheSize, 0)
	v.SetDefault(KeyMemory, false)
	v.SetDefault(KeyOutput, output.FormatAuto)
	if configDir != "" {
		v.SetDefault(KeyGlobalSettings, filepath.Join(configDir, "settings.json"))
	}

	// The test mode skips user files so runs are reproducible.
	if !testMode {
		if err := c.loadLocalDotEnv(); err != nil {
			return err
		}
		if err := c.readConfigFile(configDir); err != nil {
			return err
		}
	}

	workspace := v.GetString(KeyWorkspace)
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		workspace = wd
	}

	globalSettings := v.GetString(KeyGlobalSettings)
	if globalSettings == "" {
		globalSettings = filepath.Join(workspace, ".cycler", "global-settings.json")
	}

	bindings := v.GetString(KeyBindingsFile)
	if bindings == "" {
		bindings = filepath.Join(workspace, ".cycler", "bindings.yaml")
	}

	format := v.GetString(KeyOutput)
	if _, err := output.ForFormat(format); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyOutput, err)
	}

	cacheSize := v.GetInt(KeyCacheSize)
	if cacheSize < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyCacheSize, cacheSize)
	}

	c.config = Config{
		LogLevel:          v.GetString(KeyLogLevel),
		LogFile:           v.GetString(KeyLogFile),
		TestMode:          testMode,
		Workspace:         workspace,
		GlobalSettings:    globalSettings,
		WorkspaceSettings: filepath.Join(workspace, ".cycler", "settings.json"),
		DefaultsFile:      v.GetString(KeyDefaultsFile),
		BindingsFile:      bindings,
		CacheSize:         cacheSize,
		Language:          v.GetString(KeyLanguage),
		Memory:            v.GetBool(KeyMemory),
		Output:            format,
	}
	return nil
}

// loadLocalDotEnv exports the working directory's .env into the process
// environment. Variables already set are left alone.
func (c *ConfigurationService) loadLocalDotEnv() error {
	dir := c.v.GetString(KeyWorkspace)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	envPath := filepath.Join(dir, ".env")
	c.paths.LocalEnvPath = envPath
	if _, err := os.Stat(envPath); err != nil {
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load .env file %s: %w", envPath, err)
	}
	c.paths.LocalEnvLoaded = true
	return nil
}

func (c *ConfigurationService) readConfigFile(configDir string) error {
	if configDir == "" {
		return nil
	}

	c.v.SetConfigName("config")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(configDir)

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	c.paths.ConfigFile = c.v.ConfigFileUsed()
	return nil
}

// GetGlobalConfigurationService returns the configuration service from the global registry.
func GetGlobalConfigurationService() (*ConfigurationService, error) {
	return Lookup[*ConfigurationService](GetGlobalRegistry(), "configuration")
}
