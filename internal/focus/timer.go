// Package focus implements the countdown focus timer with work and break
// phases. The timer is independent of the gamification ledger: finishing a
// session changes phases and notifies listeners, nothing else.
package focus

import (
	"sync"
	"time"
)

// Phase is the timer phase.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Snapshot is a point-in-time view of the timer.
type Snapshot struct {
	Phase     Phase         `json:"phase"`
	Remaining time.Duration `json:"remaining"`
	Running   bool          `json:"running"`
	Sessions  int           `json:"sessions"` // completed work sessions
}

// TransitionFunc is called when a phase ends and the next one begins.
type TransitionFunc func(finished, next Phase)

// Timer counts a phase down in fixed ticks. Remaining time only decrements
// while running, so pause/resume never drifts.
type Timer struct {
	mu sync.Mutex

	workDur  time.Duration
	breakDur time.Duration
	tick     time.Duration

	phase     Phase
	remaining time.Duration
	running   bool
	sessions  int

	onTransition TransitionFunc

	stopTick chan struct{}
	done     chan struct{}
	closed   bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithTick overrides the tick interval. Tests use short ticks.
func WithTick(d time.Duration) Option {
	return func(t *Timer) { t.tick = d }
}

// WithTransition sets the phase-transition callback.
func WithTransition(fn TransitionFunc) Option {
	return func(t *Timer) { t.onTransition = fn }
}

// NewTimer creates a stopped timer in the work phase.
func NewTimer(work, brk time.Duration, opts ...Option) *Timer {
	t := &Timer{
		workDur:   work,
		breakDur:  brk,
		tick:      time.Second,
		phase:     PhaseWork,
		remaining: work,
		done:      make(chan struct{}),
	}
	close(t.done) // not running
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins counting down the current phase from its full duration.
// Starting a running timer restarts the phase.
func (t *Timer) Start() {
	t.mu.Lock()
	t.stopLoopLocked()
	t.remaining = t.phaseDuration(t.phase)
	t.startLoopLocked()
	t.mu.Unlock()
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	t.stopLoopLocked()
	t.mu.Unlock()
}

// Resume continues the countdown from the remaining time. A no-op when
// already running or when the phase has no time left.
func (t *Timer) Resume() {
	t.mu.Lock()
	if !t.running && t.remaining > 0 && !t.closed {
		t.startLoopLocked()
	}
	t.mu.Unlock()
}

// Skip ends the current phase immediately and moves to the next one,
// stopped at its full duration.
func (t *Timer) Skip() {
	t.mu.Lock()
	t.stopLoopLocked()
	t.advanceLocked(false)
	t.mu.Unlock()
}

// Close stops the timer permanently.
func (t *Timer) Close() {
	t.mu.Lock()
	t.stopLoopLocked()
	t.closed = true
	t.mu.Unlock()
}

// State returns the current snapshot.
func (t *Timer) State() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Phase:     t.phase,
		Remaining: t.remaining,
		Running:   t.running,
		Sessions:  t.sessions,
	}
}

func (t *Timer) phaseDuration(p Phase) time.Duration {
	if p == PhaseBreak {
		return t.breakDur
	}
	return t.workDur
}

// startLoopLocked launches the tick loop. Caller holds t.mu.
func (t *Timer) startLoopLocked() {
	if t.closed {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stopTick = stop
	t.done = done
	t.running = true

	go func() {
		defer close(done)
		ticker := time.NewTicker(t.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !t.onTick(stop) {
					return
				}
			}
		}
	}()
}

// onTick decrements remaining by one tick and advances the phase at zero.
// Returns false when the loop should exit.
func (t *Timer) onTick(stop chan struct{}) bool {
	t.mu.Lock()
	if t.stopTick != stop {
		// Superseded by a later Start/Pause.
		t.mu.Unlock()
		return false
	}
	t.remaining -= t.tick
	if t.remaining > 0 {
		t.mu.Unlock()
		return true
	}
	t.running = false
	t.stopTick = nil
	t.advanceLocked(true)
	t.mu.Unlock()
	return false
}

// advanceLocked flips the phase and resets remaining. Caller holds t.mu.
func (t *Timer) advanceLocked(finished bool) {
	prev := t.phase
	if prev == PhaseWork {
		if finished {
			t.sessions++
		}
		t.phase = PhaseBreak
	} else {
		t.phase = PhaseWork
	}
	t.remaining = t.phaseDuration(t.phase)

	if t.onTransition != nil {
		go t.onTransition(prev, t.phase)
	}
}

// stopLoopLocked stops a running tick loop. Caller holds t.mu.
func (t *Timer) stopLoopLocked() {
	if !t.running {
		return
	}
	close(t.stopTick)
	t.stopTick = nil
	t.running = false
	done := t.done
	t.mu.Unlock()
	<-done
	t.mu.Lock()
}
