package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confprog/internal/config"
	"confprog/internal/logger"
	"confprog/internal/program"
	"confprog/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confprog",
		Short: "Extract and browse a conference program",
		Long: `A CLI tool that extracts a conference program from its published
Sessionize pages, normalizes it into speakers, rooms, and sessions, stores
the result locally, and renders it for the terminal.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		fmt.Sprintf("Path to config file (default %s)", config.DefaultPath()))
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newSpeakersCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// loadConfig loads and validates the configuration and applies the
// verbosity flag to the default logger.
func loadConfig() (*config.Config, error) {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadProgram opens the configured store and loads the last synced program.
func loadProgram(ctx context.Context, cfg *config.Config) (*program.Program, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	defer st.Close()

	p, err := st.Load(ctx)
	if errors.Is(err, store.ErrNoProgram) {
		return nil, fmt.Errorf("no stored program yet; run 'confprog sync' first")
	}
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return p, nil
}
