package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/cmd/lfsgate/serve"
	"github.com/lfsgate/lfsgate/pkg/config"
	logr "github.com/lfsgate/lfsgate/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	rootCmd = &cobra.Command{
		Use:          "lfsgate",
		Short:        "A permission-aware Git LFS batch gateway",
		Long:         "lfsgate answers Git LFS batch requests for GitHub repositories, checking each caller's repository permission before handing out storage URLs.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serve.Command,
		configCmd,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func main() {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatal("failed to parse config", "err", err)
	}

	ctx = config.WithContext(ctx, cfg)
	logger, f, err := newDefaultLogger(cfg)
	if err != nil {
		log.Errorf("failed to create logger: %v", err)
	}

	ctx = log.WithContext(ctx, logger)
	if f != nil {
		defer f.Close() //nolint:errcheck
	}

	// Set global logger
	log.SetDefault(logger)

	// Set the max number of processes to the number of CPUs
	// This is useful when running lfsgate in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newDefaultLogger returns a new logger with default settings.
func newDefaultLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		return log.Default(), nil, err
	}
	if f == nil {
		return logger, nil, nil
	}

	return logger, f, nil
}

var errConfigExists = errors.New("config file already exists")

var (
	writeConfig bool
	forceWrite  bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration as a config file, or write it to the config path with --write.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg := config.FromContext(c.Context())
			if cfg == nil {
				return config.ErrNilConfig
			}

			if !writeConfig {
				fmt.Fprint(c.OutOrStdout(), cfg.File())
				return nil
			}

			if cfg.Exist() && !forceWrite {
				return fmt.Errorf("%w: %s", errConfigExists, cfg.ConfigPath())
			}
			if err := cfg.WriteConfig(); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			fmt.Fprintln(c.OutOrStdout(), cfg.ConfigPath())
			return nil
		},
	}
)

func init() {
	configCmd.Flags().BoolVarP(&writeConfig, "write", "w", false, "write the config file to the config path")
	configCmd.Flags().BoolVarP(&forceWrite, "force", "f", false, "overwrite an existing config file")
}
