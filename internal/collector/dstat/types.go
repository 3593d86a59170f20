// Package dstat samples system resource statistics by running dstat and
// decoding its column-aligned report.
package dstat

import (
	"context"
	"time"

	"heartbeat-agent/internal/logger"
)

const Program = "dstat"

type runFunc func(ctx context.Context, name string, args ...string) ([]string, error)

type Collector struct {
	log     logger.Logger
	timeout time.Duration
	run     runFunc
}
