// Package cli exposes the session operations as cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/config"
	"github.com/mmynk/dailysplit/internal/metrics"
	"github.com/mmynk/dailysplit/internal/middleware"
	"github.com/mmynk/dailysplit/internal/report"
	"github.com/mmynk/dailysplit/internal/service"
	"github.com/mmynk/dailysplit/internal/state"
	"github.com/mmynk/dailysplit/internal/storage"
	"github.com/mmynk/dailysplit/pkg/logging"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	logLevel   string
	ephemeral  bool

	cfg      *config.Config
	store    storage.Store
	session  *service.Session
	registry *prometheus.Registry

	sessionOpts []service.Option
}

// Execute runs the command line and returns the process exit code. opts are
// applied to the session opened for the command.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...service.Option) int {
	root, a := newRootCommand(opts...)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCommand(opts ...service.Option) (*cobra.Command, *app) {
	a := &app{sessionOpts: opts}

	root := &cobra.Command{
		Use:   "dailysplit",
		Short: "Shared daily expenses and weekly settlement",
		Long: `dailysplit tracks the daily expenses of a fixed group of people and
computes who owes whom so that everyone ends up paying the same share.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE: a.open,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "keep state in memory only")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.groupCommand(),
		a.expenseCommand(),
		a.settleCommand(),
		a.reportCommand(),
		a.feedbackCommand(),
		a.themeCommand(),
		a.startCommand(),
	)
	return root, a
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	logging.Setup(cmd.ErrOrStderr(), logging.ParseLevel(level))

	store, err := openStore(cmd.Context(), cfg.Storage)
	if err != nil {
		return err
	}
	a.store = store

	a.registry = prometheus.NewRegistry()
	opts := []service.Option{
		service.WithMetrics(metrics.New(a.registry)),
		service.WithReportGenerator(report.NewPDFGenerator(report.Options{Currency: cfg.Report.Currency})),
	}
	session, err := service.NewSession(cmd.Context(), state.NewRepository(store), append(opts, a.sessionOpts...)...)
	if err != nil {
		return err
	}
	a.session = session

	slog.Debug("Session opened", "backend", cfg.Storage.Backend)
	return nil
}

// close dumps metrics and releases the store. It runs whether or not the command
// succeeded.
func (a *app) close() error {
	if a.cfg != nil && a.cfg.Metrics.File != "" && a.registry != nil {
		if err := metrics.WriteTextfile(a.cfg.Metrics.File, a.registry); err != nil {
			slog.Warn("Failed to write metrics", "path", a.cfg.Metrics.File, "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		a.store = nil
	}
	return nil
}

// run wraps a command body with logging.
func (a *app) run(fn middleware.RunFunc) middleware.RunFunc {
	return middleware.LogCommand(fn)
}

// authed wraps a command body that needs a logged-in user.
func (a *app) authed(fn middleware.RunFunc) middleware.RunFunc {
	return middleware.LogCommand(middleware.RequireUser(a.currentSession, fn))
}

func (a *app) currentSession() *service.Session {
	return a.session
}
