// Package cli implements the placement command line: posting, application,
// withdrawal and rep workflows plus migrate, seed and demo utilities.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/config"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// Options are the persistent flags shared by every subcommand.
type Options struct {
	EnvFiles []string
	SeedFile string
}

// Opener builds the App a subcommand runs against.
type Opener func(ctx context.Context, opts Options) (*App, error)

// Execute runs the CLI and exits with status 1 on any error.
func Execute() {
	cmd := NewRootCmd(DefaultOpener)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", shared.KindOf(err), err)
		os.Exit(1)
	}
}

// DefaultOpener loads configuration from the environment, wires the App and
// applies the seed file when one is given.
func DefaultOpener(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.EnvFiles...)
	if err != nil {
		return nil, err
	}

	logOpts := cfg.LoggerOptions()
	logOpts.Output = os.Stderr
	log := logger.New(logOpts).With(logger.String("app", cfg.App.Name))

	app, err := Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == config.StorageMemory {
		log.Debug("memory storage: changes are discarded on exit")
	}
	if opts.SeedFile != "" {
		if _, err := app.Seed(ctx, opts.SeedFile); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed %s: %w", opts.SeedFile, err)
		}
	}
	return app, nil
}

// session carries the persistent flag values to the subcommands.
type session struct {
	opener Opener
	opts   Options
	format string
}

// run opens the App for one subcommand invocation and closes it afterwards.
func (s *session) run(fn func(ctx context.Context, app *App, out *printer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		out, err := newPrinter(cmd.OutOrStdout(), s.format)
		if err != nil {
			return err
		}
		app, err := s.opener(cmd.Context(), s.opts)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd.Context(), app, out)
	}
}

// NewRootCmd builds the command tree. Tests pass an opener returning an
// in-memory App.
func NewRootCmd(opener Opener) *cobra.Command {
	s := &session{opener: opener}

	cmd := &cobra.Command{
		Use:           "placement",
		Short:         "Internship placement hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&s.opts.EnvFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().StringVar(&s.opts.SeedFile, "seed", "", "YAML seed file applied before the command runs")
	cmd.PersistentFlags().StringVar(&s.format, "format", formatPretty, "output format: pretty|json")

	cmd.AddCommand(
		migrateCmd(s),
		seedCmd(s),
		demoCmd(s),
		internshipCmd(s),
		applicationCmd(s),
		withdrawalCmd(s),
		repCmd(s),
	)
	return cmd
}
