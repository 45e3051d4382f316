package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lfsgate/lfsgate/cmd"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful shutdown of the servers.
var shutdownTimeout = 30 * time.Second

// Command is the serve command.
var Command = &cobra.Command{
	Use:                "serve",
	Short:              "Start the server",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseBackendContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(c.Context())
		defer cancel()

		s, err := NewServer(ctx)
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}

		done := make(chan os.Signal, 1)
		signal.Notify(done, stopSignals...)
		defer signal.Stop(done)

		lch := make(chan error, 1)
		go func() {
			lch <- s.Start()
		}()

		select {
		case err := <-lch:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-done:
		}

		s.logger.Info("shutting down")
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := s.Shutdown(sctx); err != nil {
			return err
		}

		return <-lch
	},
}
