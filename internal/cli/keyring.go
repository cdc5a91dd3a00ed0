package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daydash/internal/keyring"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL export connection string."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password hidden."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

type KeyringSetCmd struct {
	DSN string `arg:"" help:"postgres:// connection string."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	if err := keyring.SetExportDSN(c.DSN); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Stored export connection: %s\n", keyring.Redact(c.DSN))
	return nil
}

type KeyringGetCmd struct{}

func (c *KeyringGetCmd) Run(ctx *Context) error {
	dsn, err := keyring.GetExportDSN()
	if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintln(ctx.Out, "No export connection stored.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, keyring.Redact(dsn))
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	err := keyring.DeleteExportDSN()
	if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintln(ctx.Out, "No export connection stored.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, "✓ Export connection removed")
	return nil
}
