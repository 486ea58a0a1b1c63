// Package scheduler runs the adaptive polling loop that drives the
// synchronization engine. The poll interval tightens while builds are in
// flight and relaxes back to a slow idle cadence when nothing changes.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deploywatch/deploywatch/internal/config"
	"github.com/deploywatch/deploywatch/internal/domain"
	"github.com/deploywatch/deploywatch/internal/notify"
)

// Regime names the polling cadence currently in effect.
type Regime string

const (
	// RegimeActive applies while at least one build is in progress.
	RegimeActive Regime = "active"

	// RegimeRecent applies for a window after the last status change.
	RegimeRecent Regime = "recent"

	// RegimeIdle applies when nothing has happened for a while.
	RegimeIdle Regime = "idle"
)

// Syncer is the engine surface the scheduler drives.
type Syncer interface {
	RefreshAll(ctx context.Context)
	Projects() []domain.Project
	HasActiveBuilds() bool
}

// Scheduler polls the engine on an adaptive interval, feeds each fresh
// snapshot through the change detector and dispatches the resulting
// events.
type Scheduler struct {
	syncer     Syncer
	detector   *notify.Detector
	dispatcher notify.Dispatcher
	polling    config.PollingConfig

	// now is replaceable for tests.
	now func() time.Time

	mu             sync.Mutex
	running        bool
	cancel         context.CancelFunc
	done           chan struct{}
	wake           chan struct{}
	nextPollAt     *time.Time
	recentChangeAt time.Time
}

// New creates a stopped scheduler.
func New(syncer Syncer, detector *notify.Detector, dispatcher notify.Dispatcher, polling config.PollingConfig) *Scheduler {
	return &Scheduler{
		syncer:     syncer,
		detector:   detector,
		dispatcher: dispatcher,
		polling:    polling,
		now:        time.Now,
		wake:       make(chan struct{}, 1),
	}
}

// Start launches the polling loop. Starting a running scheduler is a
// no-op. The loop stops when ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	slog.Info("Scheduler started",
		"active_interval", s.polling.ActiveInterval.String(),
		"recent_interval", s.polling.RecentInterval.String(),
		"idle_interval", s.polling.IdleInterval.String())

	go s.run(loopCtx, s.done)
}

// Stop cancels the loop and waits for it to exit. An in-flight refresh
// is allowed to finish; only the wait between polls is interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.nextPollAt = nil
	s.mu.Unlock()

	slog.Info("Scheduler stopped")
}

// PollNow interrupts the current wait so the next poll happens
// immediately. The regime is unaffected.
func (s *Scheduler) PollNow() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextPollAt reports when the next poll is due, or nil while stopped.
func (s *Scheduler) NextPollAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextPollAt
}

// Regime reports the cadence the next wait will use.
func (s *Scheduler) Regime() Regime {
	if s.syncer.HasActiveBuilds() {
		return RegimeActive
	}

	s.mu.Lock()
	recentChangeAt := s.recentChangeAt
	s.mu.Unlock()
	if !recentChangeAt.IsZero() && s.now().Sub(recentChangeAt) < s.polling.RecentChangeWindow {
		return RegimeRecent
	}
	return RegimeIdle
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		s.poll(ctx)
		if ctx.Err() != nil {
			return
		}

		interval := s.interval()
		next := s.now().Add(interval)
		s.mu.Lock()
		s.nextPollAt = &next
		s.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		}

		// A pending wake can win the select against a canceled context;
		// never poll again after cancellation.
		if ctx.Err() != nil {
			return
		}
	}
}

// poll runs one refresh cycle and feeds the result to the detector.
func (s *Scheduler) poll(ctx context.Context) {
	s.syncer.RefreshAll(ctx)
	if ctx.Err() != nil {
		return
	}

	events, changed := s.detector.Observe(s.syncer.Projects())
	for _, event := range events {
		s.dispatcher.Deliver(event)
	}
	if changed {
		s.mu.Lock()
		s.recentChangeAt = s.now()
		s.mu.Unlock()
	}
}

func (s *Scheduler) interval() time.Duration {
	switch s.Regime() {
	case RegimeActive:
		return s.polling.ActiveInterval
	case RegimeRecent:
		return s.polling.RecentInterval
	default:
		return s.polling.IdleInterval
	}
}
