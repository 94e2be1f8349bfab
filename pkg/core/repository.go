package core

import "context"

// Repository defines the contract for storing and retrieving keyed blobs.
// Each blob holds one serialized collection. Adhering to this interface
// keeps the stores independent of the storage mechanism.
type Repository interface {
	// Load decodes the blob stored under key into v.
	// It returns an error wrapping ErrNotFound if nothing is stored yet.
	Load(ctx context.Context, key string, v any) error

	// Save serializes v and stores it under key, replacing any previous blob.
	Save(ctx context.Context, key string, v any) error

	// Initialize ensures the underlying storage is ready (e.g. create directories, git init).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	// Watch emits an Event whenever a blob whose key matches pattern changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// ChangeReason returns the change reason carried by ctx, or fallback.
func ChangeReason(ctx context.Context, fallback string) string {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return fallback
}
