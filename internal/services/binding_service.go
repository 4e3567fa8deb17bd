package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"settingscycler/internal/cycler"
	"settingscycler/internal/logger"
	"settingscycler/internal/version"
)

// ErrUnknownBinding is returned when a binding name is not defined.
var ErrUnknownBinding = errors.New("unknown binding")

// reloadDebounce is how long Watch waits for more changes before reloading.
const reloadDebounce = 100 * time.Millisecond

// Binding is a named cycle payload.
type Binding struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`
	Args        any    `yaml:"args"`
}

type bindingsFile struct {
	Requires string              `yaml:"requires"`
	Bindings map[string]*Binding `yaml:"bindings"`
}

// BindingService loads named cycles from a YAML file:
//
//	requires: ">= 0.1.0"
//	bindings:
//	  font-size:
//	    description: Cycle editor font size
//	    args:
//	      values:
//	        - editor.fontSize: 12
//	        - editor.fontSize: 16
type BindingService struct {
	mu          sync.RWMutex
	config      *ConfigurationService
	path        string
	bindings    map[string]*Binding
	initialized bool
}

// NewBindingService creates a binding service reading the file named by config.
func NewBindingService(config *ConfigurationService) *BindingService {
	return &BindingService{config: config, bindings: make(map[string]*Binding)}
}

// NewBindingServiceWithPath creates a binding service reading path.
func NewBindingServiceWithPath(path string) *BindingService {
	return &BindingService{path: path, bindings: make(map[string]*Binding)}
}

// Name returns the service name "binding" for registration.
func (b *BindingService) Name() string {
	return "binding"
}

// Initialize loads the bindings file. A missing file yields no bindings.
func (b *BindingService) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if b.path == "" && b.config != nil {
		cfg, err := b.config.Config()
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
		b.path = cfg.BindingsFile
	}

	bindings, err := loadBindings(b.path)
	if err != nil {
		return err
	}
	b.bindings = bindings
	b.initialized = true

	logger.ServiceOperation("binding", "initialized", "path", b.path, "count", len(bindings))
	return nil
}

// Path returns the bindings file path.
func (b *BindingService) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Reload re-reads the bindings file. On error the previous bindings stay in place.
func (b *BindingService) Reload() error {
	b.mu.RLock()
	path, initialized := b.path, b.initialized
	b.mu.RUnlock()

	if !initialized {
		return ErrServiceNotInitialized
	}

	bindings, err := loadBindings(path)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.bindings = bindings
	b.mu.Unlock()

	logger.Debug("Bindings reloaded", "path", path, "count", len(bindings))
	return nil
}

// Get returns the binding called name.
func (b *BindingService) Get(name string) (*Binding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, ErrServiceNotInitialized
	}
	binding, ok := b.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinding, name)
	}
	return binding, nil
}

// List returns all bindings sorted by name.
func (b *BindingService) List() ([]*Binding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, ErrServiceNotInitialized
	}

	list := make([]*Binding, 0, len(b.bindings))
	for _, binding := range b.bindings {
		list = append(list, binding)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Request decodes the payload of binding name. Without an explicit id the
// binding name identifies the cycle, so editing a binding's values keeps its
// position.
func (b *BindingService) Request(name string) (*cycler.Request, error) {
	binding, err := b.Get(name)
	if err != nil {
		return nil, err
	}

	req, err := cycler.DecodeRequest(binding.Args)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", name, err)
	}
	if !req.ExplicitID {
		req.ID = "binding:" + name
	}
	return req, nil
}

// Watch reloads bindings whenever the file changes, until ctx is done.
// The parent directory is watched so the file may be created or replaced.
func (b *BindingService) Watch(ctx context.Context) error {
	path := b.Path()
	if path == "" {
		return fmt.Errorf("no bindings file configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go b.watchLoop(ctx, watcher, filepath.Clean(path))
	return nil
}

func (b *BindingService) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer func() { _ = watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || event.Has(fsnotify.Chmod) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := b.Reload(); err != nil {
				logger.Warn("Failed to reload bindings", "path", path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Bindings watcher error", "error", err)
		}
	}
}

func loadBindings(path string) (map[string]*Binding, error) {
	bindings := make(map[string]*Binding)
	if path == "" {
		return bindings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return bindings, nil
		}
		return nil, fmt.Errorf("failed to read bindings file %s: %w", path, err)
	}

	var file bindingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bindings file %s: %w", path, err)
	}

	if file.Requires != "" {
		ok, err := version.Satisfies(file.Requires)
		if err != nil {
			return nil, fmt.Errorf("bindings file %s: %w", path, err)
		}
		if !ok {
			return nil, fmt.Errorf("bindings file %s requires version %s, running %s", path, file.Requires, version.GetVersion())
		}
	}

	for name, binding := range file.Bindings {
		if binding == nil {
			return nil, fmt.Errorf("binding %s in %s has no definition", name, path)
		}
		binding.Name = name
		bindings[name] = binding
	}
	return bindings, nil
}

// GetGlobalBindingService returns the binding service from the global registry.
func GetGlobalBindingService() (*BindingService, error) {
	return Lookup[*BindingService](GetGlobalRegistry(), "binding")
}
