package network

import (
	"context"
	"time"

	"heartbeat-agent/internal/agent/command"
	"heartbeat-agent/internal/logger"
)

func NewCollector(iface string, log logger.Logger, timeout time.Duration) *Collector {
	return &Collector{
		iface:   iface,
		log:     log,
		timeout: timeout,
		run: func(ctx context.Context, name string, args ...string) ([]string, error) {
			return command.NewCommand(name, args...).Run(ctx)
		},
	}
}

// IPAddr returns the IPv4 address of the configured interface. Lookup
// failures are logged and reported as absent, never as errors.
func (c *Collector) IPAddr(ctx context.Context) (string, bool) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.run(ctx, Program, c.iface)
	if err != nil {
		c.log.Warn("interface lookup failed", "interface", c.iface, "error", err)
		return "", false
	}

	addr, ok := parseInetAddr(out)
	if !ok {
		c.log.Debug("no inet address found", "interface", c.iface)
	}
	return addr, ok
}
