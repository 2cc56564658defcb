package ports

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
)

// PermissionCache stores resolved effective matrices per user. Every user
// has a generation that Invalidate bumps; Set only lands while the
// generation it was given is still current, so a matrix resolved before an
// edit can never be written back after that edit's invalidation.
type PermissionCache interface {
	// Get reports found=false on a miss. gen is the user's generation at
	// read time and is what a following Set must pass back.
	Get(ctx context.Context, userID string) (matrix domain.PermissionMatrix, gen uint64, found bool, err error)
	// Set reports stored=false when the generation moved on since gen.
	Set(ctx context.Context, userID string, gen uint64, matrix domain.PermissionMatrix) (stored bool, err error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

// PermissionWarmer recomputes and caches a user's effective matrix.
type PermissionWarmer interface {
	Warm(ctx context.Context, userID string) error
}

// WarmupQueue accepts user ids whose cache entry should be rebuilt.
type WarmupQueue interface {
	Enqueue(userID string)
}
