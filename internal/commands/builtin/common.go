package builtin

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"settingscycler/internal/cycler"
	"settingscycler/internal/output"
	"settingscycler/pkg/cyclertypes"
)

// printerOr returns p, or the process-wide printer when p is nil.
func printerOr(p *output.Printer) *output.Printer {
	if p != nil {
		return p
	}
	return output.Default()
}

// subject returns the command's target from the first bracket key or the first
// word of the input, so both \get[key] and \get key work.
func subject(args map[string]string, input string, reserved ...string) string {
	keys := make([]string, 0, len(args))
	for key, value := range args {
		if value == "" && !contains(reserved, key) {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return keys[0]
	}

	fields := strings.Fields(input)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// requestOptions maps the id and global bracket options onto request options.
// A bare global flag means true.
func requestOptions(args map[string]string) ([]cycler.RequestOption, error) {
	var opts []cycler.RequestOption
	if id, ok := args["id"]; ok {
		opts = append(opts, cycler.WithID(id))
	}
	if raw, ok := args["global"]; ok {
		global := true
		if raw != "" {
			var err error
			global, err = cast.ToBoolE(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid global option %q: %w", raw, err)
			}
		}
		opts = append(opts, cycler.WithGlobal(global))
	}
	return opts, nil
}

// parseScope reads a scope option; empty means workspace.
func parseScope(raw string) (cyclertypes.Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "workspace":
		return cyclertypes.ScopeWorkspace, nil
	case "global", "user":
		return cyclertypes.ScopeGlobal, nil
	default:
		return cyclertypes.ScopeWorkspace, fmt.Errorf("unknown scope %q (expected workspace or global)", raw)
	}
}

// parseLiteral reads a value as JSON, falling back to the raw string.
func parseLiteral(raw string) any {
	raw = strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// formatValue renders a setting value as compact JSON.
func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// reportResult prints the outcome of a cycle step.
func reportResult(p *output.Printer, result *cycler.Result) {
	p.Success(fmt.Sprintf("Applied snapshot %d/%d of %s", result.Index+1, result.Length, result.Identity))

	keys := result.Applied.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		p.KeyValue(key, formatValue(result.Applied[key]))
	}

	for _, failure := range result.Failures {
		p.Warning(fmt.Sprintf("%s was not updated: %v", failure.Key, failure.Err))
	}
}
