package domain

import "context"

// IdentityStore persists the device id handed out by the server. An absent
// id is reported as ok == false with a nil error.
type IdentityStore interface {
	GetID(ctx context.Context) (id string, ok bool, err error)
	SetID(ctx context.Context, id string) (string, error)
	Close() error
}
