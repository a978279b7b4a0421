// internal/board/synchronizer.go
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultSuccessMessage = "Tasks reordered"
	defaultFailureMessage = "Failed to reorder tasks"
)

// Result is the answer of the persistence service to a batch reorder.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Reorderer persists a batch of task orders for one project.
type Reorderer interface {
	ReorderTasks(ctx context.Context, projectID string, tasks []TaskOrder) (Result, error)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Synchronizer sends reorders to the persistence service in the background.
// At most one request is in flight; the slot is a channel of capacity 1 and
// a request that finds it taken is dropped by the caller, never queued.
type Synchronizer struct {
	store    Reorderer
	notifier Notifier
	timeout  time.Duration
	logger   *log.Entry

	slot   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SyncOption configures a Synchronizer
type SyncOption func(*Synchronizer)

// WithTimeout bounds every persistence call.
func WithTimeout(d time.Duration) SyncOption {
	return func(s *Synchronizer) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for failed or dropped calls.
func WithLogger(entry *log.Entry) SyncOption {
	return func(s *Synchronizer) {
		s.logger = entry
	}
}

// NewSynchronizer creates a synchronizer. A nil notifier logs messages instead.
func NewSynchronizer(store Reorderer, notifier Notifier, opts ...SyncOption) *Synchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		store:    store,
		notifier: notifier,
		timeout:  10 * time.Second,
		logger:   log.WithField("component", "board_sync"),
		slot:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	return s
}

// Pending reports whether a reorder is currently in flight.
func (s *Synchronizer) Pending() bool {
	return len(s.slot) > 0
}

func (s *Synchronizer) tryAcquire() bool {
	select {
	case s.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Synchronizer) release() {
	select {
	case <-s.slot:
	default:
	}
}

// dispatch runs the reorder call in the background. The caller must hold
// the slot; it is released once the call returns. onFailure runs before
// the error notification.
func (s *Synchronizer) dispatch(projectID string, batch []TaskOrder, onFailure func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()

		res, err := s.call(projectID, batch)
		if s.ctx.Err() != nil {
			s.logger.WithField("project_id", projectID).Debug("board closed, dropping reorder notification")
			return
		}

		if err != nil || !res.Success {
			msg := res.Message
			if err != nil {
				msg = err.Error()
			}
			if msg == "" {
				msg = defaultFailureMessage
			}
			s.logger.WithFields(log.Fields{
				"project_id": projectID,
				"tasks":      len(batch),
			}).Warnf("reorder failed: %s", msg)
			if onFailure != nil {
				onFailure()
			}
			s.notifier.Error(msg)
			return
		}

		msg := res.Message
		if msg == "" {
			msg = defaultSuccessMessage
		}
		s.notifier.Success(msg)
	}()
}

func (s *Synchronizer) call(projectID string, batch []TaskOrder) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reorder tasks: %v", r)
		}
	}()

	// Closing the board does not abort a request already sent.
	ctx := context.WithoutCancel(s.ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.store.ReorderTasks(ctx, projectID, batch)
}

// Wait blocks until no reorder is in flight.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Close detaches the synchronizer from the UI. In-flight calls may still
// complete on the server but their notifications are dropped.
func (s *Synchronizer) Close() {
	s.cancel()
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *log.Entry
}

func (n LogNotifier) Success(message string) {
	n.Logger.Info(message)
}

func (n LogNotifier) Error(message string) {
	n.Logger.Error(message)
}
