package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"settingscycler/internal/cycler"
	"settingscycler/internal/logger"
	"settingscycler/internal/output"
	"settingscycler/internal/testutils"
	"settingscycler/pkg/cyclertypes"
)

// CyclerService owns the cycling engine and its index cache.
// The cache lives as long as the service, which is the life of the process.
type CyclerService struct {
	mu          sync.RWMutex
	config      *ConfigurationService
	settings    *SettingsService
	notifier    cyclertypes.Notifier
	logger      *log.Logger
	engine      *cycler.Engine
	initialized bool
}

// NewCyclerService creates a cycler service. A nil notifier prints through output.Default.
func NewCyclerService(config *ConfigurationService, settings *SettingsService, notifier cyclertypes.Notifier) *CyclerService {
	if notifier == nil {
		notifier = output.NewNotifier(nil)
	}
	return &CyclerService{
		config:   config,
		settings: settings,
		notifier: notifier,
		logger:   logger.NewStyledLogger("Cycler"),
	}
}

// Name returns the service name "cycler" for registration.
func (s *CyclerService) Name() string {
	return "cycler"
}

// SetLogger replaces the logger used for write failures and debug traces.
func (s *CyclerService) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Initialize builds the engine over the settings store.
func (s *CyclerService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if s.settings == nil {
		return fmt.Errorf("cycler service requires the settings service")
	}

	store, err := s.settings.Store()
	if err != nil {
		return fmt.Errorf("failed to get settings store: %w", err)
	}

	capacity, testMode := 0, false
	if s.config != nil {
		cfg, err := s.config.Config()
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
		capacity, testMode = cfg.CacheSize, cfg.TestMode
	}

	s.engine = cycler.NewEngine(store, cycler.NewIndexCache(capacity), s.notifier, s.logger)
	s.engine.SetIDSource(testutils.UUIDSource(testMode))
	s.initialized = true
	logger.ServiceOperation("cycler", "initialized", "cache-size", capacity)
	return nil
}

func (s *CyclerService) getEngine() (*cycler.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrServiceNotInitialized
	}
	return s.engine, nil
}

// Cycle applies the next snapshot for a decoded payload.
func (s *CyclerService) Cycle(ctx context.Context, payload any, opts ...cycler.RequestOption) (*cycler.Result, error) {
	engine, err := s.getEngine()
	if err != nil {
		return nil, err
	}
	return engine.Cycle(ctx, payload, opts...)
}

// CycleJSON applies the next snapshot for a raw JSON payload.
func (s *CyclerService) CycleJSON(ctx context.Context, data []byte, opts ...cycler.RequestOption) (*cycler.Result, error) {
	engine, err := s.getEngine()
	if err != nil {
		return nil, err
	}
	return engine.CycleJSON(ctx, data, opts...)
}

// Apply runs a request that was decoded elsewhere, for example by a binding.
func (s *CyclerService) Apply(ctx context.Context, req *cycler.Request) (*cycler.Result, error) {
	engine, err := s.getEngine()
	if err != nil {
		return nil, err
	}
	return engine.Apply(ctx, req)
}

// Reset clears every remembered cycle position.
func (s *CyclerService) Reset() error {
	engine, err := s.getEngine()
	if err != nil {
		return err
	}
	engine.Reset()
	return nil
}

// Entries lists the remembered cycle positions.
func (s *CyclerService) Entries() ([]cycler.CacheEntry, error) {
	engine, err := s.getEngine()
	if err != nil {
		return nil, err
	}
	return engine.Cache().Entries(), nil
}

// GetGlobalCyclerService returns the cycler service from the global registry.
func GetGlobalCyclerService() (*CyclerService, error) {
	return Lookup[*CyclerService](GetGlobalRegistry(), "cycler")
}
