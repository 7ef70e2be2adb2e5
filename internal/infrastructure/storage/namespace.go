// Package storage composes blob storage backends.
package storage

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// Namespaced prefixes every key of a shared backend.
type Namespaced struct {
	base   ports.BlobStorage
	prefix string
}

func Namespace(base ports.BlobStorage, prefix string) *Namespaced {
	return &Namespaced{base: base, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.base.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.base.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.base.Delete(ctx, n.prefix+key)
}

// ContextPrefix is the namespace of one browser context.
func ContextPrefix(contextID string) string {
	return "ctx:" + contextID + ":"
}

// PerContext returns a function handing out the namespace of each browser
// context over base.
func PerContext(base ports.BlobStorage) func(contextID string) ports.BlobStorage {
	return func(contextID string) ports.BlobStorage {
		return Namespace(base, ContextPrefix(contextID))
	}
}
