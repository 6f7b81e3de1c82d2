package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner schedules jobs in UTC with second-level specs. A panicking job is
// recovered and logged so later ticks still fire.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(zapCronLogger{logger.Sugar()})),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add registers job under spec. The name only appears in logs.
func (r *Runner) Add(name string, spec string, job func(context.Context)) (cron.EntryID, error) {
	id, err := r.cron.AddFunc(spec, func() {
		start := time.Now()
		job(r.baseCtx)
		r.logger.Debug("cron job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return 0, err
	}
	r.logger.Info("cron job registered", zap.String("job", name), zap.String("spec", spec))
	return id, nil
}

func (r *Runner) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}

type zapCronLogger struct {
	s *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
