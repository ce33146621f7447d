package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("storage: empty key")

// Store persists one string blob per key. Get reports ok=false for a key
// that was never set.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type namespaced struct {
	base   Store
	prefix string
}

// Namespaced scopes every key of base under prefix, so many carts can share
// one backend while each keeps using the same fixed key.
func Namespaced(base Store, prefix string) Store {
	return &namespaced{base: base, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return n.base.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.base.Set(ctx, n.prefix+key, value)
}
