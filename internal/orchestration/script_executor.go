// Package orchestration runs cycler shell lines and scripts against the
// command registry. Interactive and batch modes share this path so a line
// behaves the same in both.
package orchestration

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"settingscycler/internal/commands"
	"settingscycler/internal/logger"
	"settingscycler/internal/parser"
)

// CommentPrefix starts a line that is ignored.
const CommentPrefix = "%%"

// ScriptError reports the script line that failed.
type ScriptError struct {
	Line    int
	Command string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Command, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// IsSkippable reports whether a line is blank or a comment.
func IsSkippable(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, CommentPrefix)
}

// ExecuteLine parses one shell line and runs it through registry.
// Blank and comment lines do nothing.
func ExecuteLine(ctx context.Context, registry *commands.Registry, line string) error {
	if IsSkippable(line) {
		return nil
	}

	cmd := parser.ParseInput(line)
	if cmd.Name == "" {
		return nil
	}

	logger.CommandExecution(cmd.Name, cmd.Options)
	return registry.Execute(ctx, cmd.Name, cmd.Options, cmd.Message)
}

// ExecuteScript runs every line of the script at scriptPath in order and
// stops at the first failing line.
func ExecuteScript(ctx context.Context, registry *commands.Registry, scriptPath string) error {
	logger.Debug("Starting script execution", "script", scriptPath)

	file, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer func() { _ = file.Close() }()

	count, err := ExecuteReader(ctx, registry, file)
	if err != nil {
		return err
	}

	logger.Info("Script execution completed successfully", "script", scriptPath, "commands_executed", count)
	return nil
}

// ExecuteReader runs each line read from r and returns how many commands ran.
func ExecuteReader(ctx context.Context, registry *commands.Registry, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if IsSkippable(line) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}

		count++
		logger.Debug("Executing command", "number", count, "line", lineNumber)
		if err := ExecuteLine(ctx, registry, line); err != nil {
			return count, &ScriptError{Line: lineNumber, Command: strings.TrimSpace(line), Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read script: %w", err)
	}
	return count, nil
}
