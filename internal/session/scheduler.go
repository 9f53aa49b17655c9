package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultQuietPeriod is the debounce window between the last edit and the
// autosave attempt it triggers.
const DefaultQuietPeriod = 500 * time.Millisecond

// Scheduler debounces edit notifications into a single delayed autosave
// trigger. Each NotifyEdit cancels the previously scheduled trigger and
// arms a new one: rapid typing produces no intermediate fires, only one
// after the quiet period with no further edits.
type Scheduler struct {
	clock clockwork.Clock
	quiet time.Duration
	fire  func()

	mu    sync.Mutex
	timer clockwork.Timer
}

func NewScheduler(clock clockwork.Clock, quiet time.Duration, fire func()) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Scheduler{clock: clock, quiet: quiet, fire: fire}
}

// NotifyEdit restarts the quiet-period timer. Cancellation and re-arm
// happen under one lock, so no two timers are ever outstanding.
func (s *Scheduler) NotifyEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.quiet, s.fire)
}

// Stop cancels any pending trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
