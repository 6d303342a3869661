// Package session tracks revoked token ids until the tokens expire.
package session

import (
	"context"
	"time"
)

type Store interface {
	// Revoke marks tokenID as revoked for ttl. A non-positive ttl is a no-op.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
