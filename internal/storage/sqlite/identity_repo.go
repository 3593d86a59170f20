package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"heartbeat-agent/internal/domain"
	"heartbeat-agent/internal/logger"
	"heartbeat-agent/internal/storage/identity"
)

const (
	FileName    = "identity.db"
	deviceIDKey = "device_id"
)

type IdentityRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewIdentityStore keeps the device id in a single sqlite file inside dir.
// dir must already exist and be writable.
func NewIdentityStore(dir string, log logger.Logger) (*IdentityRepository, error) {
	if err := identity.CheckDir(dir); err != nil {
		return nil, err
	}

	db, err := OpenDB(context.Background(), filepath.Join(dir, FileName), log)
	if err != nil {
		return nil, domain.NewError(domain.KindConfig, "identity", err)
	}

	return &IdentityRepository{db: db, now: time.Now}, nil
}

func (r *IdentityRepository) GetID(ctx context.Context) (string, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM identity WHERE key = ?", deviceIDKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewError(domain.KindIO, "identity read", err)
	}

	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func (r *IdentityRepository) SetID(ctx context.Context, id string) (string, error) {
	query := `
	INSERT INTO identity (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, deviceIDKey, id, r.now().Unix()); err != nil {
		return "", domain.NewError(domain.KindIO, "identity write", err)
	}
	return id, nil
}

func (r *IdentityRepository) Close() error {
	return r.db.Close()
}
