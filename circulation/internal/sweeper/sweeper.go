package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one periodic sweep. A failed run is logged and retried on the next tick.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	log  *zap.Logger
	jobs []Job
}

func NewScheduler(log *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		log:  log.Named("sweeper"),
		jobs: jobs,
	}
}

// Run starts every job with a positive interval and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			s.log.Info("job disabled", zap.String("job", job.Name))
			continue
		}
		job := job
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx, job)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Error("sweep failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	s.log.Debug("sweep done", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}
