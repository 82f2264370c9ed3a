// internal/app/status_watcher.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// HomeworkAPI fetches the raw homework statuses payload for events since cursor.
type HomeworkAPI interface {
	Fetch(ctx context.Context, cursor int64) (any, error)
}

// State is a point-in-time copy of what the watcher knows.
type State struct {
	Cursor        int64
	LastMessage   string // last message successfully delivered
	LastError     string
	LastErrorKind string
	LastPollAt    time.Time
	LastSentAt    time.Time
	Polls         int
	Sent          int
}

// StatusWatcher runs single poll iterations: fetch, validate, format, notify.
// Iterations must not overlap; the scheduler guarantees that. State may be read concurrently.
type StatusWatcher struct {
	api      HomeworkAPI
	notifier Notifier
	journal  homework.Journal // optional
	logger   *logrus.Entry
	now      func() time.Time

	mu    sync.RWMutex
	state State
}

func NewStatusWatcher(
	api HomeworkAPI,
	notifier Notifier,
	journal homework.Journal, // nil disables the delivery journal
	logger *logrus.Entry,
	startCursor int64,
) *StatusWatcher {
	return &StatusWatcher{
		api:      api,
		notifier: notifier,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
		state:    State{Cursor: startCursor},
	}
}

// State returns a copy of the current watcher state.
func (w *StatusWatcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// PollOnce runs one iteration. Errors are logged and recorded in State; the returned
// error is informational and never requires the caller to stop polling.
func (w *StatusWatcher) PollOnce(ctx context.Context) error {
	err := w.poll(ctx)

	w.mu.Lock()
	w.state.Polls++
	w.state.LastPollAt = w.now()
	if err != nil {
		w.state.LastError = err.Error()
		w.state.LastErrorKind = homework.Kind(err)
	} else {
		w.state.LastError = ""
		w.state.LastErrorKind = ""
	}
	cursor := w.state.Cursor
	w.mu.Unlock()

	if err != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   homework.Kind(err),
			"cursor": cursor,
		}).Error("Poll iteration failed")
	}
	return err
}

func (w *StatusWatcher) poll(ctx context.Context) error {
	w.mu.RLock()
	cursor := w.state.Cursor
	lastMessage := w.state.LastMessage
	w.mu.RUnlock()

	w.logger.WithField("from_date", cursor).Debug("Requesting homework statuses")
	payload, err := w.api.Fetch(ctx, cursor)
	if err != nil {
		return fmt.Errorf("fetch homework statuses: %w", err)
	}

	resp, err := homework.Validate(payload)
	if err != nil {
		return fmt.Errorf("check api response: %w", err)
	}
	w.advanceCursor(resp.CurrentDate)

	if len(resp.Homeworks) == 0 {
		w.logger.Debug("No homework status changes")
		return nil
	}

	// The API lists the most recently updated homework first.
	latest := resp.Homeworks[0]
	message, err := homework.Format(latest)
	if err != nil {
		return fmt.Errorf("parse homework status: %w", err)
	}

	if message == lastMessage {
		w.logger.WithField("homework", latest.Name()).Debug("Status already reported, notification suppressed")
		return nil
	}

	if err := w.notifier.Notify(message); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	sentAt := w.now()
	w.mu.Lock()
	w.state.LastMessage = message
	w.state.LastSentAt = sentAt
	w.state.Sent++
	w.mu.Unlock()

	logCtx := w.logger.WithFields(logrus.Fields{
		"homework": latest.Name(),
		"status":   latest.Status(),
	})
	logCtx.Info("Notification sent")

	if w.journal != nil {
		d := &homework.Delivery{
			HomeworkName: latest.Name(),
			Status:       latest.Status(),
			Message:      message,
			SentAt:       sentAt,
		}
		if err := w.journal.Record(ctx, d); err != nil {
			logCtx.WithError(err).Warn("Failed to record delivery in journal")
		}
	}
	return nil
}

// advanceCursor moves the cursor forward; it never goes back.
func (w *StatusWatcher) advanceCursor(currentDate int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if currentDate > w.state.Cursor {
		w.state.Cursor = currentDate
	} else if currentDate < w.state.Cursor {
		w.logger.WithFields(logrus.Fields{
			"cursor":       w.state.Cursor,
			"current_date": currentDate,
		}).Warn("Server time is behind the cursor, keeping cursor")
	}
}
