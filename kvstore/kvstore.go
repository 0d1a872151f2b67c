// Package kvstore is the persistence capability for session-adjacent data:
// saved addresses, saved (masked) cards, and the local order cache. Keys are
// always namespaced per user; nothing here is global state.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// UserKey builds the namespaced key for a user-scoped record, e.g.
// user:42:addresses.
func UserKey(userID, suffix string) string {
	return fmt.Sprintf("user:%s:%s", userID, suffix)
}

const (
	KeyAddresses = "addresses"
	KeyCards     = "cards"
	KeyOrders    = "orders"
)
