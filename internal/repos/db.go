package repos

import (
	"context"
	"fmt"
	"io"

	"warehouse/internal/config"
	"warehouse/internal/kv"
	applog "warehouse/internal/log"
	"warehouse/internal/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore builds the one CollectionStore the process uses, chosen by
// STORE_BACKEND (and KV_BACKEND for the local one). The closer releases the
// underlying kv handle.
func OpenStore(ctx context.Context, cfg config.Config) (store.CollectionStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case "remote":
		applog.Info(nil, "store.open", map[string]any{"backend": "remote", "url": cfg.RemoteURL})
		return store.NewRemote(cfg.RemoteURL, cfg.RemoteTimeout), nopCloser{}, nil
	case "local", "":
		var (
			k   kv.Store
			err error
		)
		switch cfg.KVBackend {
		case "redis":
			applog.Info(nil, "store.open", map[string]any{"backend": "local", "kv": "redis", "addr": cfg.RedisAddr})
			k, err = kv.OpenRedis(ctx, cfg.RedisAddr)
		case "sqlite", "":
			applog.Info(nil, "store.open", map[string]any{"backend": "local", "kv": "sqlite", "dsn": cfg.DBDSN})
			k, err = kv.OpenSQLite(cfg.DBDSN)
		default:
			return nil, nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
		}
		if err != nil {
			return nil, nil, err
		}
		return store.NewLocal(k), k, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
