package agent

import (
	"context"

	"heartbeat-agent/internal/domain"
	"heartbeat-agent/internal/logger"
)

type Updater interface {
	Apply(ctx context.Context, id string, update domain.Update) error
}

// LogUpdater acknowledges updates pushed by the server without acting on
// them.
type LogUpdater struct {
	log logger.Logger
}

func NewLogUpdater(log logger.Logger) *LogUpdater {
	return &LogUpdater{log: log}
}

func (u *LogUpdater) Apply(_ context.Context, id string, update domain.Update) error {
	u.log.Info("update received", "id", id, "payload_bytes", len(update.Payload))
	return nil
}
