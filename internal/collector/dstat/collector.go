package dstat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"heartbeat-agent/internal/agent/command"
	"heartbeat-agent/internal/domain"
	"heartbeat-agent/internal/logger"
)

// NewCollector returns a collector that runs dstat. A zero timeout leaves
// the command unbounded.
func NewCollector(log logger.Logger, timeout time.Duration) *Collector {
	return &Collector{
		log:     log,
		timeout: timeout,
		run: func(ctx context.Context, name string, args ...string) ([]string, error) {
			return command.NewCommand(name, args...).Run(ctx)
		},
	}
}

// Args returns the dstat arguments: one flag per column in order, colors
// disabled, a single one-second sample.
func Args() []string {
	args := make([]string, 0, len(domain.Columns)+3)
	for _, col := range domain.Columns {
		args = append(args, "--"+col)
	}
	return append(args, "--nocolor", "1", "1")
}

func (c *Collector) Sample(ctx context.Context) (domain.Status, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := Args()
	c.log.Debug("running sampler", "command", Program+" "+strings.Join(args, " "))

	out, err := c.run(ctx, Program, args...)
	if err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return domain.Status{}, domain.Errorf(domain.KindIO, "dstat",
				"exited with status %d: %s", exitErr.Code, strconv.Quote(strings.Join(out, "\n")))
		}
		return domain.Status{}, domain.NewError(domain.KindIO, "dstat", err)
	}

	lines := make([]string, 0, len(out))
	for _, line := range out {
		lines = append(lines, cleanLine(line))
	}

	return Parse(lines)
}
