package services

import (
	"context"
	"fmt"
	"sync"

	"settingscycler/internal/logger"
	"settingscycler/internal/settings"
	"settingscycler/pkg/cyclertypes"
)

// SettingsService owns the settings store the cycler reads and writes.
type SettingsService struct {
	mu          sync.RWMutex
	config      *ConfigurationService
	store       cyclertypes.ConfigStore
	initialized bool
}

// NewSettingsService creates a settings service configured by config.
func NewSettingsService(config *ConfigurationService) *SettingsService {
	return &SettingsService{config: config}
}

// NewSettingsServiceWithStore creates a settings service around an existing store.
func NewSettingsServiceWithStore(store cyclertypes.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Name returns the service name "settings" for registration.
func (s *SettingsService) Name() string {
	return "settings"
}

// Initialize opens the store: in memory when configured so, else backed by settings files.
func (s *SettingsService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if s.store == nil {
		if s.config == nil {
			return fmt.Errorf("settings service has neither a store nor a configuration")
		}
		cfg, err := s.config.Config()
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}

		if cfg.Memory {
			s.store = settings.NewMemoryStore()
		} else {
			store, err := settings.NewFileStore(settings.FileStoreOptions{
				GlobalPath:    cfg.GlobalSettings,
				WorkspacePath: cfg.WorkspaceSettings,
				DefaultsPath:  cfg.DefaultsFile,
				Language:      cfg.Language,
			})
			if err != nil {
				return fmt.Errorf("failed to open settings store: %w", err)
			}
			s.store = store
		}
	}

	s.initialized = true
	logger.ServiceOperation("settings", "initialized", "store", fmt.Sprintf("%T", s.store))
	return nil
}

// Store returns the underlying store.
func (s *SettingsService) Store() (cyclertypes.ConfigStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrServiceNotInitialized
	}
	return s.store, nil
}

// Inspect reports the layered values of key.
func (s *SettingsService) Inspect(ctx context.Context, key string) (*cyclertypes.InspectionResult, bool, error) {
	store, err := s.Store()
	if err != nil {
		return nil, false, err
	}
	return store.Inspect(ctx, key)
}

// Set writes a literal value for key in the given scope.
func (s *SettingsService) Set(ctx context.Context, key string, value any, scope cyclertypes.Scope) error {
	store, err := s.Store()
	if err != nil {
		return err
	}
	if err := store.Update(ctx, key, value, scope); err != nil {
		return fmt.Errorf("failed to update %s in %s scope: %w", key, scope, err)
	}
	return nil
}

// Current returns the effective settings snapshot.
func (s *SettingsService) Current(ctx context.Context) (cyclertypes.Snapshot, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Current(ctx)
}

// GetGlobalSettingsService returns the settings service from the global registry.
func GetGlobalSettingsService() (*SettingsService, error) {
	return Lookup[*SettingsService](GetGlobalRegistry(), "settings")
}
