package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/julianstephens/daydash/internal/backup"
	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/keyring"
)

type ExportCmd struct {
	Out      string `help:"Write the SQLite snapshot to this file instead of the snapshot directory." type:"path" xor:"target"`
	Postgres bool   `help:"Export to PostgreSQL using the connection string from --dsn, the DAYDASH_EXPORT_DSN variable, or the keyring." xor:"target"`
	DSN      string `help:"PostgreSQL connection string." env:"DAYDASH_EXPORT_DSN"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	bg := context.Background()

	if c.Postgres {
		dsn, err := keyring.ResolveDSN(c.DSN, "")
		if err != nil {
			return fmt.Errorf("resolving export connection: %w", err)
		}
		counts, err := ctx.exportPostgres(bg, dsn)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "✓ Exported to %s\n", keyring.Redact(dsn))
		printCounts(ctx, counts)
		return nil
	}

	path := c.Out
	if path == "" {
		created, err := ctx.snapshotManager().Create(bg, ctx.Store.Snapshot())
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
		path = created
	} else {
		db, err := backup.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := backup.Export(bg, db, ctx.Store.Snapshot()); err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
	}

	db, err := backup.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	counts, err := backup.Counts(bg, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Snapshot written: %s\n", path)
	printCounts(ctx, counts)
	return nil
}

func printCounts(ctx *Context, counts map[string]int) {
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(ctx.Out, "  %-14s %d\n", table, counts[table])
	}
}

type SnapshotsCmd struct{}

func (c *SnapshotsCmd) Run(ctx *Context) error {
	mgr := ctx.snapshotManager()
	snapshots, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(ctx.Out, "No snapshots found.")
		fmt.Fprintf(ctx.Out, "Snapshots are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Fprintf(ctx.Out, "Available snapshots (%d total, keeping most recent %d):\n\n", len(snapshots), ctx.Config.Snapshot.Max)
	for _, s := range snapshots {
		fmt.Fprintf(ctx.Out, "  %s  %s  (%.1f KB)\n",
			s.Timestamp.Format(constants.DateFormat+" 15:04:05"), filepath.Base(s.Path), float64(s.Size)/1024.0)
	}
	fmt.Fprintf(ctx.Out, "\nSnapshot directory: %s\n", mgr.Dir())
	return nil
}
