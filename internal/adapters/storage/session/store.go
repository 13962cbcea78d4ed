package session

import (
	"context"
	"time"
)

// Store persists per-browser-session values such as the backend token and
// the selected role. Values are opaque: the store does no validation.
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Remove(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
	Touch(ctx context.Context, sid string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
