// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work. The context is cancelled on shutdown.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron     *cron.Cron
	failFast bool
	errs     chan error
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.Logger
}

// New builds a scheduler. With failFast a job error ends Run, otherwise it is
// logged and the job keeps its schedule.
func New(failFast bool, log *zap.Logger) *Scheduler {
	logger := cronLogger{log: log.With(zap.String("component", "scheduler"))}

	opts := []cron.Option{cron.WithLogger(logger)}
	if !failFast {
		opts = append(opts, cron.WithChain(cron.Recover(logger)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(opts...),
		failFast: failFast,
		errs:     make(chan error, 1),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.log,
	}
}

// Add registers job under spec, e.g. "@hourly" or "*/5 * * * *".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil {
			s.log.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
			if s.failFast {
				select {
				case s.errs <- fmt.Errorf("job %s: %w", name, err):
				default:
				}
			}
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%s): %w", name, spec, err)
	}

	s.log.Info("Job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Run starts the schedule and blocks until ctx is done or, with failFast, a job fails.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()

	var err error
	select {
	case <-ctx.Done():
	case err = <-s.errs:
	}

	s.cancel()
	<-s.cron.Stop().Done()
	return err
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
