package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPoller struct {
	runs    atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	block   chan struct{}
}

func (p *countingPoller) PollOnce(ctx context.Context) error {
	if p.running.Add(1) > 1 {
		p.overlap.Store(true)
	}
	defer p.running.Add(-1)
	p.runs.Add(1)
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func newTestLogger() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return logrus.NewEntry(log)
}

func TestPollScheduler_RunsImmediatelyAndRepeats(t *testing.T) {
	p := &countingPoller{}
	s := NewPollScheduler(p, newTestLogger(), time.Second)

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return p.runs.Load() >= 1 }, 500*time.Millisecond, 10*time.Millisecond,
		"first poll should not wait for the interval")
	require.Eventually(t, func() bool { return p.runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
	assert.False(t, p.overlap.Load())
}

func TestPollScheduler_StopCancelsRunningPoll(t *testing.T) {
	p := &countingPoller{block: make(chan struct{})}
	s := NewPollScheduler(p, newTestLogger(), time.Second)

	s.Start(context.Background())
	require.Eventually(t, func() bool { return p.running.Load() == 1 }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while a poll was blocked")
	}
	assert.Zero(t, p.running.Load())
}

func TestPollScheduler_SkipsOverlappingRuns(t *testing.T) {
	p := &countingPoller{block: make(chan struct{})}
	s := NewPollScheduler(p, newTestLogger(), time.Second)

	s.Start(context.Background())
	defer s.Stop()

	// The first run blocks past several ticks; none of them may start a second run.
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), p.runs.Load())
	assert.False(t, p.overlap.Load())
	close(p.block)
}

type deadlinePoller struct {
	hadDeadline atomic.Bool
	runs        atomic.Int32
}

func (p *deadlinePoller) PollOnce(ctx context.Context) error {
	_, ok := ctx.Deadline()
	p.hadDeadline.Store(ok)
	p.runs.Add(1)
	return nil
}

func TestPollScheduler_EachRunHasDeadline(t *testing.T) {
	p := &deadlinePoller{}
	s := NewPollScheduler(p, newTestLogger(), time.Hour)
	assert.Equal(t, defaultRunTimeout, s.runTimeout)

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return p.runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, p.hadDeadline.Load())
}

func TestPollScheduler_CancelledParentSkipsRun(t *testing.T) {
	p := &countingPoller{}
	s := NewPollScheduler(p, newTestLogger(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
	s.Stop()

	assert.Zero(t, p.runs.Load())
}
