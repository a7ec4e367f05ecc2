package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/catalog"
	"github.com/sells-group/advisor-match/internal/resilience"
	"github.com/sells-group/advisor-match/internal/store"
)

// initStore opens the configured store, retrying transient connection
// failures.
func initStore(ctx context.Context) (store.Store, error) {
	retry := resilience.FromMillis(cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoffMs, cfg.Retry.MaxBackoffMs)
	retry.OnRetry = resilience.RetryLogger("open store")

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (store.Store, error) {
		return openStore(ctx)
	})
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "advisor-match.db"
		}
		s, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initCatalog returns the candidate source named by source: the built-in
// demo data, a catalog file, or the profiles in st.
func initCatalog(source, path string, st store.Store) (catalog.Provider, error) {
	switch source {
	case "", "mock":
		return catalog.NewStatic(nil), nil
	case "file":
		cat, err := catalog.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return catalog.NewStatic(cat), nil
	case "store":
		if st == nil {
			return nil, eris.New("catalog source store needs an open store")
		}
		return catalog.NewStoreBacked(st), nil
	default:
		return nil, eris.Errorf("unsupported catalog source: %s", source)
	}
}
