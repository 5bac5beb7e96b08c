package main

import (
	"context"
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/app"
	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	configFile string
}

func (c *cli) load() (*config.Config, *zap.Logger) {
	cfg := config.NewConfig(
		config.WithWriteTimeout(time.Minute),
		config.WithFile(c.configFile),
	)
	return cfg, logger.NewLogger(cfg.Log, "circulation")
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "circulation",
		Short:        "Library circulation engine: loans, reservations and hold queues",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML config file")

	root.AddCommand(
		c.serveCmd(),
		c.migrateCmd(),
		c.overdueCmd(),
		c.expireHoldsCmd(),
	)
	return root
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, sweepers and the catalog consumer",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg, log := c.load()
			app.Run(cfg, log)
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := c.load()
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			version, err := a.MigrationVersion()
			if err != nil {
				return err
			}
			log.Info("database is up to date", zap.Int64("version", version))
			return nil
		},
	}
}

func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	now, err := time.Parse(time.RFC3339, value)
	return now, errors.Wrap(err, "--now")
}

// withApp runs fn with the notification dispatcher started, and waits for
// queued notifications to go out before closing.
func (c *cli) withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) (any, error)) error {
	cfg, log := c.load()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	dispatchCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = a.Dispatcher.Run(dispatchCtx)
	}()

	out, err := fn(ctx, a)
	stop()
	<-done
	if out != nil {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
	}
	return err
}

func (c *cli) overdueCmd() *cobra.Command {
	var (
		minDays int
		apply   bool
		force   bool
		now     string
	)
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Report overdue loans; with --apply, remind borrowers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) (any, error) {
				return a.OverdueSweep(ctx, !apply, minDays, force, at)
			})
		},
	}
	cmd.Flags().IntVar(&minDays, "min-days", 0, "only loans overdue by more than this many days")
	cmd.Flags().BoolVar(&apply, "apply", false, "send reminders instead of a dry run")
	cmd.Flags().BoolVar(&force, "force", false, "remind again loans that were already reminded")
	cmd.Flags().StringVar(&now, "now", "", "evaluate at this RFC 3339 instant")
	return cmd
}

func (c *cli) expireHoldsCmd() *cobra.Command {
	var now string
	cmd := &cobra.Command{
		Use:   "expire-holds",
		Short: "Expire overdue holds and pass freed copies down the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) (any, error) {
				return a.ExpireHolds(ctx, at)
			})
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "evaluate at this RFC 3339 instant")
	return cmd
}
