package settings

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"settingscycler/pkg/cyclertypes"
)

//go:embed defaults.json
var builtinDefaults []byte

// FileStoreOptions locates the files backing a FileStore.
type FileStoreOptions struct {
	GlobalPath    string // user-wide settings.json
	WorkspacePath string // workspace settings.json
	DefaultsPath  string // optional extra defaults, overlaid on the builtin ones
	Language      string // language id whose "[lang]" sections fill the language slots
}

// FileStore reads and writes editor style settings.json files. Keys are flat
// dotted names; language overrides live in "[lang]" objects. Files are read
// on every call so edits made by other programs are picked up.
type FileStore struct {
	opts     FileStoreOptions
	defaults []byte
	mu       sync.Mutex // serializes read-modify-write of the settings files
}

// NewFileStore creates a FileStore. Missing settings files are treated as empty.
func NewFileStore(opts FileStoreOptions) (*FileStore, error) {
	if opts.GlobalPath == "" || opts.WorkspacePath == "" {
		return nil, fmt.Errorf("global and workspace settings paths are required")
	}

	defaults := builtinDefaults
	if opts.DefaultsPath != "" {
		extra, err := readSettingsFile(opts.DefaultsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load defaults: %w", err)
		}
		defaults, err = overlay(defaults, extra)
		if err != nil {
			return nil, fmt.Errorf("failed to merge defaults: %w", err)
		}
	}

	return &FileStore{opts: opts, defaults: defaults}, nil
}

// Options returns the options the store was created with.
func (s *FileStore) Options() FileStoreOptions {
	return s.opts
}

// Inspect implements cyclertypes.ConfigStore.
func (s *FileStore) Inspect(ctx context.Context, key string) (*cyclertypes.InspectionResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	global, err := readSettingsFile(s.opts.GlobalPath)
	if err != nil {
		return nil, false, err
	}
	workspace, err := readSettingsFile(s.opts.WorkspacePath)
	if err != nil {
		return nil, false, err
	}

	path := EscapePath(key)
	result := &cyclertypes.InspectionResult{
		Key:            key,
		DefaultValue:   lookup(s.defaults, path),
		GlobalValue:    lookup(global, path),
		WorkspaceValue: lookup(workspace, path),
	}

	if lang := s.opts.Language; lang != "" {
		langPath := EscapePath(languageSection(lang)) + "." + path
		result.DefaultLanguageValue = lookup(s.defaults, langPath)
		result.GlobalLanguageValue = lookup(global, langPath)
		result.WorkspaceLanguageValue = lookup(workspace, langPath)
	}
	result.LanguageIDs = languageIDs(key, s.defaults, global, workspace)

	known := result.DefaultValue.Set || result.GlobalValue.Set || result.WorkspaceValue.Set ||
		result.DefaultLanguageValue.Set || result.GlobalLanguageValue.Set || result.WorkspaceLanguageValue.Set
	if !known {
		return nil, false, nil
	}
	return result, true, nil
}

// Update implements cyclertypes.ConfigStore. The target file is rewritten
// atomically and pretty printed.
func (s *FileStore) Update(ctx context.Context, key string, value any, scope cyclertypes.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.opts.WorkspacePath
	if scope == cyclertypes.ScopeGlobal {
		path = s.opts.GlobalPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := readSettingsFile(path)
	if err != nil {
		return err
	}
	data, err = sjson.SetBytes(data, EscapePath(key), value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return writeFileAtomic(path, pretty.Pretty(data))
}

// Current implements cyclertypes.ConfigStore. Language sections are skipped.
func (s *FileStore) Current(ctx context.Context) (cyclertypes.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	global, err := readSettingsFile(s.opts.GlobalPath)
	if err != nil {
		return nil, err
	}
	workspace, err := readSettingsFile(s.opts.WorkspacePath)
	if err != nil {
		return nil, err
	}
	return mergeLayers(topLevel(s.defaults), topLevel(global), topLevel(workspace)), nil
}

// EscapePath escapes a settings key for use as a single gjson/sjson path component.
func EscapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '[', ']', '{', '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func languageSection(lang string) string {
	return "[" + lang + "]"
}

func isLanguageSection(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]")
}

func lookup(data []byte, path string) cyclertypes.Value {
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return cyclertypes.Value{}
	}
	return cyclertypes.Some(cyclertypes.NormalizeValue(res.Value()))
}

// languageIDs lists the languages that override key in any layer.
func languageIDs(key string, docs ...[]byte) []string {
	seen := make(map[string]bool)
	for _, doc := range docs {
		gjson.ParseBytes(doc).ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			if isLanguageSection(name) && v.IsObject() && v.Get(EscapePath(key)).Exists() {
				seen[name[1:len(name)-1]] = true
			}
			return true
		})
	}
	if len(seen) == 0 {
		return nil
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// topLevel returns the non-language keys of a settings document.
func topLevel(data []byte) map[string]any {
	out := make(map[string]any)
	gjson.ParseBytes(data).ForEach(func(k, v gjson.Result) bool {
		if name := k.String(); !isLanguageSection(name) {
			out[name] = cyclertypes.NormalizeValue(v.Value())
		}
		return true
	})
	return out
}

// overlay sets every top-level key of extra onto base.
func overlay(base, extra []byte) ([]byte, error) {
	out := append([]byte(nil), base...)
	var setErr error
	gjson.ParseBytes(extra).ForEach(func(k, v gjson.Result) bool {
		out, setErr = sjson.SetRawBytes(out, EscapePath(k.String()), []byte(v.Raw))
		return setErr == nil
	})
	return out, setErr
}

// readSettingsFile returns the file contents, or an empty object when the
// file does not exist.
func readSettingsFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("settings file %s is not valid JSON", path)
	}
	return data, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
