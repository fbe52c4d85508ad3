package storage

import (
	"context"
	"fmt"
)

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// NewRegistry builds the registry named by kind
func NewRegistry(ctx context.Context, kind string) (Registry, error) {
	switch kind {
	case "", KindMemory:
		return NewStorage(), nil
	case KindSQLite:
		s, err := NewSQLiteStorage(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown registry kind %q (want %q or %q)", kind, KindMemory, KindSQLite)
	}
}
