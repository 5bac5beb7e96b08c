package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/circulation/internal/handler"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/server"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/Astemirdum/library-circulation/circulation/internal/sweeper"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/migrate"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/sqlite"
	"github.com/IBM/sarama"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App is the engine with its storage and outbound notifications, without the
// HTTP and background surfaces. The CLI runs one-off sweeps on it.
type App struct {
	DB         *sqlx.DB
	Service    *service.Service
	Dispatcher *notifier.Dispatcher

	dialect  string
	producer sarama.SyncProducer
	log      *zap.Logger
}

func OpenDB(ctx context.Context, cfg config.Database) (*sqlx.DB, string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Postgres, migrations.MigrationFiles)
		return db, migrate.DialectPostgres, err
	case config.DriverSQLite:
		db, err := sqlite.NewSQLiteDB(ctx, &cfg.SQLite, migrations.MigrationFiles)
		return db, migrate.DialectSQLite, err
	default:
		return nil, "", errors.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, dialect, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "db init")
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "repo")
	}

	a := &App{DB: db, dialect: dialect, log: log}
	var sender notifier.Sender
	if cfg.Kafka.Enabled() {
		if a.producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "kafka.NewProducer")
		}
		sender = notifier.NewKafkaSender(a.producer)
	} else {
		log.Warn("no kafka brokers configured, notifications go to the log")
		sender = notifier.NewLogSender(log)
	}
	a.Dispatcher = notifier.NewDispatcher(sender, log)
	a.Service = service.NewService(repo, a.Dispatcher, cfg.Policy, log)
	return a, nil
}

func (a *App) MigrationVersion() (int64, error) {
	return migrate.Version(a.DB.DB, a.dialect)
}

// OverdueSweep reports loans overdue by more than minDays at now (the clock when
// zero). Unless dryRun, borrowers not yet reminded get a reminder; force
// reminds them again.
func (a *App) OverdueSweep(ctx context.Context, dryRun bool, minDays int, force bool, now time.Time) (model.OverdueReport, error) {
	return a.Service.OverdueSweep(ctx, model.OverdueSweepRequest{
		Now:                now,
		MinimumDaysOverdue: minDays,
		DryRun:             dryRun,
		Force:              force,
	})
}

func (a *App) ExpireHolds(ctx context.Context, now time.Time) (model.ExpireResult, error) {
	return a.Service.ExpireSweep(ctx, now)
}

func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Error("producer close", zap.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.log.Error("db close", zap.Error(err))
	}
}

func sweepJobs(cfg *config.Config, svc *service.Service) []sweeper.Job {
	return []sweeper.Job{
		{
			Name:     "overdue",
			Interval: cfg.Sweep.Interval,
			Run: func(ctx context.Context) error {
				_, err := svc.OverdueSweep(ctx, model.OverdueSweepRequest{MinimumDaysOverdue: cfg.Sweep.OverdueMinDays})
				return err
			},
		},
		{
			Name:     "holds",
			Interval: cfg.Sweep.Interval,
			Run: func(ctx context.Context) error {
				_, err := svc.ExpireSweep(ctx, time.Time{})
				return err
			},
		},
	}
}

func Run(cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, cfg, log)
	if err != nil {
		log.Fatal("app init", zap.Error(err))
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return sweeper.NewScheduler(log, sweepJobs(cfg, a.Service)...).Run(gctx)
	})
	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.CirculationConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		g.Go(func() error {
			return kafka.Consume(gctx, consumer, handler.NewConsumer(a.Service.ApplyCatalogEvent, log), log, kafka.CatalogTopic)
		})
	}

	h := handler.New(a.Service, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancelClose := context.WithTimeout(context.Background(), time.Second*5)
	defer cancelClose()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err = g.Wait(); err != nil {
		log.Error("background workers", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
