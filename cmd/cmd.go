package cmd

import (
	"fmt"

	"github.com/lfsgate/lfsgate/pkg/backend"
	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/spf13/cobra"
)

// InitBackendContext opens the backend described by the config in the
// command context and attaches it to the context.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return config.ErrNilConfig
	}

	be, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}

	cmd.SetContext(backend.WithContext(ctx, be))

	return nil
}

// CloseBackendContext closes the backend in the command context.
func CloseBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	be := backend.FromContext(ctx)
	if be != nil {
		if err := be.Close(); err != nil {
			return fmt.Errorf("close backend: %w", err)
		}
	}

	return nil
}
