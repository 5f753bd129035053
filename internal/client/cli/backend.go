package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/auth"
	"github.com/dmitrijs2005/mymoment/internal/client/client"
	"github.com/dmitrijs2005/mymoment/internal/client/config"
	"github.com/dmitrijs2005/mymoment/internal/client/docstore"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/repositories/documents"
	"github.com/dmitrijs2005/mymoment/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mymoment/internal/filex"
	"github.com/dmitrijs2005/mymoment/internal/logging"
)

// backend is the set of collaborators selected by config.Backend.
type backend struct {
	provider auth.Provider
	docs     docstore.Store
	meta     metadata.Repository

	// remote is set for the remote backend only.
	remote client.Client
	// watch runs a store's change feed until ctx ends; nil when the store
	// needs none.
	watch func(ctx context.Context) error

	closers []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

func openDatabase(ctx context.Context, dataDir string) (*sql.DB, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return client.InitDatabase(ctx, filepath.Join(dir, "mymoment.db"))
}

func openBackend(ctx context.Context, cfg *config.Config, logger logging.Logger) (*backend, error) {
	b := &backend{}

	if cfg.Backend == config.BackendMemory {
		b.meta = metadata.NewMemoryRepository()
		var opts []docstore.MemoryOption
		if cfg.Seed {
			opts = append(opts, docstore.WithSeed(docstore.SampleDocuments(models.SampleEntries(time.Now()))))
		}
		b.docs = docstore.NewMemoryStore(opts...)
	} else {
		db, err := openDatabase(ctx, cfg.DataDir)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.meta = metadata.NewSQLiteRepository(db)

		switch cfg.Backend {
		case config.BackendSQLite:
			b.docs = docstore.NewSQLiteStore(documents.NewSQLiteRepository(db))
		case config.BackendFiles:
			ds, err := docstore.NewDiskvStore(filepath.Join(cfg.DataDir, "entries"), logger)
			if err != nil {
				_ = b.Close()
				return nil, err
			}
			b.docs = ds
			b.watch = ds.Watch
		case config.BackendRemote:
			c, err := client.NewMomentClient(cfg.ServerEndpointAddr)
			if err != nil {
				_ = b.Close()
				return nil, fmt.Errorf("connect %s: %w", cfg.ServerEndpointAddr, err)
			}
			b.closers = append(b.closers, c.Close)
			b.remote = c
			b.provider = auth.NewRemoteProvider(c)
			b.docs = docstore.NewRemoteStore(c, logger)
		}
	}

	if b.provider == nil {
		p, err := auth.NewLocalProvider(ctx, auth.NewAccountStore(b.meta), logger)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.provider = p
	}
	return b, nil
}
