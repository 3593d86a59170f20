// Package command
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	initialScannerBufferSize = 4096
	maxScannerBufferSize     = 10 * 1024 * 1024
)

type LineHandler = func(line string)

// Command runs an external program with stdout and stderr merged into a
// single stream, the way a shell `2>&1` would.
type Command struct {
	name string
	args []string
}

func NewCommand(name string, args ...string) *Command {
	return &Command{
		name: name,
		args: args,
	}
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// Run executes the command and returns its output lines. Lines are passed
// through unmodified apart from line ending normalization. A nonzero exit
// is reported as *ExitError together with the output gathered so far.
func (c *Command) Run(ctx context.Context, handlers ...LineHandler) ([]string, error) {
	var lines []string

	err := c.execute(ctx, func(line string) {
		lines = append(lines, line)

		for _, h := range handlers {
			if h != nil {
				h(line)
			}
		}
	})

	return lines, err
}

func (c *Command) execute(ctx context.Context, handler LineHandler) error {
	cmd := exec.CommandContext(ctx, c.name, c.args...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	streamErr := make(chan error, 1)
	go func() {
		streamErr <- c.streamOutput(pr, handler)
	}()

	cmdErr := cmd.Wait()
	pw.Close()
	serr := <-streamErr

	if cmdErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var exitErr *exec.ExitError
		if errors.As(cmdErr, &exitErr) {
			return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("command failed: %w", cmdErr)
	}

	if serr != nil {
		return fmt.Errorf("stream error occurred: %w", serr)
	}

	return nil
}

func (c *Command) streamOutput(r io.Reader, handler LineHandler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialScannerBufferSize), maxScannerBufferSize)

	for scanner.Scan() {
		for _, line := range c.normalizeAndSplitLines(scanner.Text()) {
			handler(line)
		}
	}

	if err := scanner.Err(); err != nil {
		// drain so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

func (c *Command) normalizeAndSplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.Split(text, "\n")
}

type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}
