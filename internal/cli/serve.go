package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/daydash/internal/api"
	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address. Overrides listen_addr from the config file." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.ListenAddr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(ctx.Out, "%s %s serving on http://%s\n", constants.AppName, constants.Version, addr)
	err := api.New(ctx.Store).ListenAndServe(sigCtx, addr)

	// Snapshots get their own deadline since sigCtx is already done.
	snapCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	ctx.SnapshotOnExit(snapCtx)

	if err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
