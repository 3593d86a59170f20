// Package network
package network

import (
	"context"
	"time"

	"heartbeat-agent/internal/logger"
)

const Program = "ifconfig"

type runFunc func(ctx context.Context, name string, args ...string) ([]string, error)

type Collector struct {
	iface   string
	log     logger.Logger
	timeout time.Duration
	run     runFunc
}
