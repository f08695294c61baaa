// Package cli wires configuration, logging, the store and the interactive
// shell into the satman command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/satman/internal/config"
	"github.com/roach88/satman/internal/shell"
	"github.com/roach88/satman/internal/store"
)

// RootOptions holds the command's flags.
type RootOptions struct {
	Verbose    bool
	ConfigFile string
	DataFile   string
	MaxScore   float64
}

// NewRootCommand creates the root command for the satman CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "satman",
		Short: "satman - SAT results manager",
		Long: `An interactive record manager for SAT candidate results.

Candidate records (name, address, score) are kept in a JSON file and
managed from a numbered menu: insert, view, rank, update, delete,
averages, pass/fail filtering, explicit save and max score changes.

Settings come from defaults, then the --config YAML file, then SATMAN_*
environment variables, then flags.

Example:
  satman
  satman --data ./scores.json --max-score 100
  SATMAN_LOG_LEVEL=debug satman --config satman.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.DataFile, "data", "", "path to the JSON data file (default "+config.DefaultDataFile+")")
	cmd.Flags().Float64Var(&opts.MaxScore, "max-score", 0, "max score for a new data file (default 1600)")

	return cmd
}

// resolveConfig layers flags over the loaded configuration.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataFile = opts.DataFile
	}
	if cmd.Flags().Changed("max-score") {
		cfg.DefaultMaxScore = opts.MaxScore
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel() // validated by resolveConfig
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return configError("invalid configuration", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	slog.Debug("opening store", "path", cfg.DataFile, "default_max_score", cfg.DefaultMaxScore)
	st, err := store.Open(cfg.DataFile,
		store.WithDefaultMaxScore(cfg.DefaultMaxScore),
		store.WithLogger(logger),
	)
	if err != nil {
		return configError("failed to open data file", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sh := shell.New(st, cmd.InOrStdin(), cmd.OutOrStdout(),
		shell.WithLogger(logger),
		shell.WithPause(),
	)
	if err := sh.Run(ctx); err != nil {
		return sessionError(err)
	}
	return nil
}
