package preferences

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/domain/user"
)

// MutateFunc edits p in place and reports whether anything changed.
type MutateFunc func(p *user.UserPreferences) (changed bool, err error)

// Store is the durable, per-user preference record. Mutate must serialize
// concurrent calls for the same user so no read-modify-write is lost.
type Store interface {
	// Get returns the user's row, creating it from seed when absent.
	Get(ctx context.Context, userID uuid.UUID, seed func() *user.UserPreferences) (*user.UserPreferences, error)
	Mutate(ctx context.Context, userID uuid.UUID, seed func() *user.UserPreferences, fn MutateFunc) (*user.UserPreferences, error)
	// Replace drops the user's row and stores fresh in its place.
	Replace(ctx context.Context, fresh *user.UserPreferences) (*user.UserPreferences, error)
	ListAutoAdjustUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
