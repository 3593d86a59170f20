package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"heartbeat-agent/internal/domain"
)

// Run reports forever, one heartbeat per tick. A failed iteration is logged
// and followed by the backoff delay in addition to the tick. Only context
// cancellation stops the loop.
func (a *Agent) Run(ctx context.Context) error {
	tick := a.cfg.TickDuration()
	backoff := a.cfg.Backoff()

	a.log.Info("agent loop started", "server", a.cfg.ServerURL, "tick", tick, "backoff", backoff)

	for {
		if err := a.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}

			a.logFailure(err, backoff)
			if a.sleep(ctx, backoff) != nil {
				break
			}
		}

		if a.sleep(ctx, tick) != nil {
			break
		}
	}

	a.log.Info("agent loop stopped", "id", a.id)
	return nil
}

func (a *Agent) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if err := a.ensureID(ctx); err != nil {
		return err
	}

	packet, err := a.sampler.Collect(ctx)
	if err != nil {
		return err
	}

	update, err := a.client.Heartbeat(ctx, a.id, packet)
	if err != nil {
		return err
	}

	if packet.IPAddr != nil {
		a.log.Debug("heartbeat sent", "id", a.id, "ip_addr", *packet.IPAddr)
	} else {
		a.log.Debug("heartbeat sent", "id", a.id)
	}

	if update.Present {
		if err := a.updater.Apply(ctx, a.id, update); err != nil {
			return fmt.Errorf("failed to apply update: %w", err)
		}
	}

	return nil
}

// ensureID loads the stored id, registering with the server when there is
// none.
func (a *Agent) ensureID(ctx context.Context) error {
	if a.id != "" {
		return nil
	}

	id, ok, err := a.store.GetID(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.id = id
		a.log.Info("using stored device id", "id", id)
		return nil
	}

	id, err = a.client.Hello(ctx)
	if err != nil {
		return err
	}

	if _, err := a.store.SetID(ctx, id); err != nil {
		return err
	}

	a.id = id
	a.log.Info("registered with server", "id", id)
	return nil
}

func (a *Agent) logFailure(err error, backoff time.Duration) {
	args := []any{"op", domain.OpOf(err), "kind", domain.KindOf(err).String(), "error", err, "backoff", backoff}

	switch domain.KindOf(err) {
	case domain.KindNetwork:
		a.log.Error("server exchange failed", args...)
	case domain.KindFormat:
		a.log.Error("unexpected sampler output", args...)
	case domain.KindIO:
		a.log.Error("local command or storage failed", args...)
	case domain.KindConfig:
		a.log.Error("configuration error", args...)
	default:
		a.log.Error("iteration failed", args...)
	}
}
