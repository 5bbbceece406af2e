package storage

import (
	"context"
	"errors"
)

// Store is the scoped key-value persistence shared by the cart and the user
// profile. Each consumer owns its own key; values are opaque JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")

// Well-known keys.
const (
	CartKey       = "woodenFurnitureCart"
	UserKey       = "user"
	AdminTokenKey = "adminToken"
)

func scopedKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
