// Package agent
package agent

import (
	"context"
	"time"

	"heartbeat-agent/internal/config"
	"heartbeat-agent/internal/domain"
	"heartbeat-agent/internal/logger"
)

type Agent struct {
	cfg     *config.Config
	log     logger.Logger
	store   domain.IdentityStore
	sampler *Sampler
	client  Reporter
	updater Updater

	sleep func(ctx context.Context, d time.Duration) error

	id string
}

func NewAgent(
	cfg *config.Config,
	log logger.Logger,
	store domain.IdentityStore,
	sampler *Sampler,
	client Reporter,
	updater Updater,
) *Agent {
	return &Agent{
		cfg:     cfg,
		log:     log,
		store:   store,
		sampler: sampler,
		client:  client,
		updater: updater,
		sleep:   sleepContext,
	}
}

// ID returns the device id the agent is currently reporting under.
func (a *Agent) ID() string {
	return a.id
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
