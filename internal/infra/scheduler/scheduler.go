package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const defaultRunTimeout = 1 * time.Minute

// Poller runs a single poll iteration.
type Poller interface {
	PollOnce(ctx context.Context) error
}

// PollScheduler runs the poller immediately on Start and then once per interval.
// Runs never overlap: a run still in progress when the next one is due causes that one to be skipped.
type PollScheduler struct {
	cronEngine *cron.Cron
	poller     Poller
	logger     *logrus.Entry
	interval   time.Duration
	runTimeout time.Duration

	job    cron.Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPollScheduler(poller Poller, logger *logrus.Entry, interval time.Duration) *PollScheduler {
	return &PollScheduler{
		cronEngine: cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		poller:     poller,
		logger:     logger,
		interval:   interval,
		runTimeout: defaultRunTimeout,
	}
}

// Start schedules the poller. Cancelling ctx has the same effect as Stop, minus the wait.
func (s *PollScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.logger.WithField("interval", s.interval.String()).Info("Starting poll scheduler...")

	// One wrapped job shared by the cron entry and the immediate run, so both see the same guard.
	s.job = cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(s.logger))).Then(cron.FuncJob(func() {
		s.runOnce(ctx)
	}))
	s.cronEngine.Schedule(cron.Every(s.interval), s.job)
	s.cronEngine.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
	s.logger.Info("Poll scheduler started.")
}

func (s *PollScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	started := time.Now()
	err := s.poller.PollOnce(runCtx)
	s.logger.WithFields(logrus.Fields{
		"duration": time.Since(started).String(),
		"ok":       err == nil,
	}).Debug("Poll run finished")
}

// Stop cancels the in-flight poll, if any, and waits for it to return.
func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("Poll scheduler gracefully stopped.")
}
