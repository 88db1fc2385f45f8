package adapter

import (
	"context"
	"time"

	cacheport "marketchat/internal/infrastructure/cache/port"
	"marketchat/internal/pkg/profile/port"
)

const displayNameTTL = 15 * time.Minute

// CachedDirectory decorates a Directory with a read-through cache. Display
// names change rarely; a short TTL keeps renames from sticking forever while
// sparing the profile store a lookup per conversation row.
type CachedDirectory struct {
	inner port.Directory
	cache cacheport.Cache
}

func NewCachedDirectory(inner port.Directory, cache cacheport.Cache) *CachedDirectory {
	return &CachedDirectory{inner: inner, cache: cache}
}

var _ port.Directory = (*CachedDirectory)(nil)

func (d *CachedDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	key := "profile:name:" + userID

	// Miss or cache transport trouble both fall through to the source of truth.
	if name, err := d.cache.Get(ctx, key); err == nil {
		return name, nil
	}

	name, err := d.inner.DisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	_ = d.cache.Set(ctx, key, name, displayNameTTL)
	return name, nil
}
