package subscribers

import (
	"fmt"
	"io"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Store is a SubscriberStore that may hold resources.
type Store interface {
	ports.SubscriberStore
	io.Closer
}

type nopCloser struct{ ports.SubscriberStore }

func (nopCloser) Close() error { return nil }

// New builds the store selected by settings.
func New(settings domain.SubscriberSettings) (Store, error) {
	switch settings.Backend {
	case domain.BackendFile, "":
		return nopCloser{NewFileStore(settings.Path)}, nil
	case domain.BackendSQLite:
		return NewSQLiteStore(settings.Path)
	case domain.BackendRedis:
		return NewRedisStore(settings.RedisAddr, settings.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown subscriber backend %q", settings.Backend)
	}
}
