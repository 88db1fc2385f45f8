package port

import (
	"context"
	"errors"
)

// ErrUnknownUser signals that no profile exists for the given id.
var ErrUnknownUser = errors.New("profile: unknown user")

// Directory resolves user ids to display names. The marketplace's user and
// admin profiles live outside this subsystem; this is the boundary we consume
// them through.
type Directory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}
