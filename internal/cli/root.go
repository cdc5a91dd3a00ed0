package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/daydash/internal/backup"
	"github.com/julianstephens/daydash/internal/config"
	"github.com/julianstephens/daydash/internal/keyring"
	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/seed"
	"github.com/julianstephens/daydash/internal/storage"
	"github.com/julianstephens/daydash/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	Out    io.Writer
	Now    func() time.Time
}

// NewContext builds the store described by cfg and seeds it when enabled.
func NewContext(cfg *config.Config) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	store := storage.NewMemoryStore(
		storage.WithLocation(loc),
		storage.WithRecomputeOnUncomplete(cfg.RecomputeOnUncomplete),
	)

	c := &Context{Store: store, Config: cfg, Out: os.Stdout, Now: time.Now}
	if cfg.Seed {
		if _, err := seed.Apply(store, c.Now()); err != nil {
			return nil, fmt.Errorf("seeding sample data: %w", err)
		}
	}
	return c, nil
}

func (c *Context) snapshotManager() *backup.Manager {
	return backup.NewManager(c.Config.Snapshot.Dir, c.Config.Snapshot.Max)
}

// exportPostgres writes the current snapshot to the database at dsn.
func (c *Context) exportPostgres(ctx context.Context, dsn string) (map[string]int, error) {
	db, err := backup.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := backup.Export(ctx, db, c.Store.Snapshot()); err != nil {
		return nil, fmt.Errorf("exporting to %s: %w", keyring.Redact(dsn), err)
	}
	return backup.Counts(ctx, db)
}

// SnapshotOnExit writes the shutdown snapshots configured under snapshot.*.
// Failures are logged, never returned: the server has already stopped.
func (c *Context) SnapshotOnExit(ctx context.Context) {
	if c.Config.Snapshot.OnExit {
		if _, err := c.snapshotManager().Create(ctx, c.Store.Snapshot()); err != nil {
			logger.Warn("Snapshot on exit failed", "error", err)
		}
	}
	if c.Config.Snapshot.Postgres {
		dsn, err := keyring.GetExportDSN()
		if err != nil {
			logger.Warn("No postgres export connection available", "error", err)
			return
		}
		if _, err := c.exportPostgres(ctx, dsn); err != nil {
			logger.Warn("Postgres export on exit failed", "error", err)
		}
	}
}
