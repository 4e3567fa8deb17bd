// Package parser splits cycler shell lines into a command name, bracket
// options and a message:
//
//	\name[opt=value, flag] message
//
// Lines without a leading backslash are shorthand: a JSON object or array
// cycles that payload, anything else runs the binding of that name.
package parser

import (
	"sort"
	"strings"
)

// Default commands for lines without a leading backslash.
const (
	PayloadCommand = "cycle"
	BindingCommand = "run"
)

// Command is one parsed shell line.
type Command struct {
	Name           string
	BracketContent string
	Options        map[string]string
	Message        string
}

// ParseInput parses a shell line. It never fails: malformed option brackets
// are kept as part of the command name so the command lookup reports them.
// Empty input yields a command with an empty name.
func ParseInput(input string) *Command {
	cmd := &Command{Options: make(map[string]string)}

	input = strings.TrimSpace(input)
	if input == "" {
		return cmd
	}

	if !strings.HasPrefix(input, "\\") {
		cmd.Message = input
		if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
			cmd.Name = PayloadCommand
		} else {
			cmd.Name = BindingCommand
		}
		return cmd
	}

	input = strings.TrimSpace(input[1:])
	if input == "" {
		return cmd
	}

	nameEnd := strings.IndexAny(input, " [")
	if nameEnd == -1 {
		cmd.Name = input
		return cmd
	}

	if input[nameEnd] == '[' {
		closing := findClosingBracket(input, nameEnd)
		if closing == -1 {
			// Unclosed bracket: treat the first word as the name.
			parts := strings.SplitN(input, " ", 2)
			cmd.Name = parts[0]
			if len(parts) > 1 {
				cmd.Message = strings.TrimSpace(parts[1])
			}
			return cmd
		}
		cmd.Name = input[:nameEnd]
		cmd.BracketContent = input[nameEnd+1 : closing]
		parseKeyValueOptions(cmd.BracketContent, cmd.Options)
		cmd.Message = strings.TrimSpace(input[closing+1:])
		return cmd
	}

	cmd.Name = input[:nameEnd]
	cmd.Message = strings.TrimSpace(input[nameEnd+1:])
	return cmd
}

// findClosingBracket returns the index of the bracket matching the one at
// open, skipping quoted text and nested brackets, or -1.
func findClosingBracket(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseKeyValueOptions(content string, options map[string]string) {
	for _, part := range splitByComma(content) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, value, found := strings.Cut(part, "="); found {
			options[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
		} else {
			options[part] = ""
		}
	}
}

// splitByComma splits on commas outside quotes and outside [] or {} groups,
// so option values may hold JSON.
func splitByComma(s string) []string {
	var parts []string
	var current strings.Builder
	var quote byte
	depth := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(s) {
				current.WriteByte(c)
				i++
				c = s[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{':
			depth++
		case (c == ']' || c == '}') && depth > 0:
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// unquote strips one pair of matching outer quotes and unescapes quotes inside.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first != '"' && first != '\'') || first != last {
		return s
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, "\\"+string(first), string(first))
}

// String renders the command back in shell syntax with options sorted by key.
func (c *Command) String() string {
	var b strings.Builder
	b.WriteString("\\")
	b.WriteString(c.Name)

	if len(c.Options) > 0 {
		keys := make([]string, 0, len(c.Options))
		for k := range c.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("[")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			if v := c.Options[k]; v != "" {
				b.WriteString("=\"")
				b.WriteString(strings.ReplaceAll(v, "\"", "\\\""))
				b.WriteString("\"")
			}
		}
		b.WriteString("]")
	}

	if c.Message != "" {
		b.WriteString(" ")
		b.WriteString(c.Message)
	}
	return b.String()
}
