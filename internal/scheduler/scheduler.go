// Package scheduler drives periodic reminder passes.  It owns a
// single background goroutine that ticks a Runner at a fixed interval
// and exposes start/stop/status/run-now controls for the admin API.
package scheduler

import (
    "context"
    "log"
    "sync"
    "time"

    "github.com/iliyamo/advisor-booking/internal/service"
)

// DefaultInterval is the poll period between reminder passes.  The
// reminder windows in the service package are sized for this value.
const DefaultInterval = 5 * time.Minute

// Runner is the unit of work the scheduler ticks.  In production it is
// the reminder engine's full pass.
type Runner interface {
    ProcessAll(ctx context.Context) (service.Summary, error)
}

// Status is the externally visible scheduler state.
type Status struct {
    IsRunning bool       `json:"isRunning"`
    NextRun   *time.Time `json:"nextRun,omitempty"`
}

// Scheduler runs a Runner every interval.  All methods are safe for
// concurrent use; Start and Stop are idempotent.
type Scheduler struct {
    runner   Runner
    clock    service.Clock
    interval time.Duration

    mu      sync.Mutex
    running bool
    nextRun time.Time
    stop    chan struct{}
    done    chan struct{}
}

// New constructs a Scheduler.  A non-positive interval falls back to
// DefaultInterval; a nil clock defaults to the system clock.
func New(runner Runner, clock service.Clock, interval time.Duration) *Scheduler {
    if runner == nil {
        panic("nil runner passed to scheduler.New")
    }
    if clock == nil {
        clock = service.SystemClock{}
    }
    if interval <= 0 {
        interval = DefaultInterval
    }
    return &Scheduler{runner: runner, clock: clock, interval: interval}
}

// Start launches the ticking goroutine.  Calling Start while already
// running is a logged no-op.
func (s *Scheduler) Start() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.running {
        log.Println("scheduler: start requested but already running")
        return
    }
    s.running = true
    s.nextRun = s.clock.Now().Add(s.interval)
    s.stop = make(chan struct{})
    s.done = make(chan struct{})
    go s.loop(s.stop, s.done)
    log.Printf("scheduler: started, interval %s", s.interval)
}

// Stop halts the ticking goroutine and waits for it to exit.  Calling
// Stop while not running is a logged no-op.  A pass already in flight
// finishes before Stop returns.
func (s *Scheduler) Stop() {
    s.mu.Lock()
    if !s.running {
        s.mu.Unlock()
        log.Println("scheduler: stop requested but not running")
        return
    }
    s.running = false
    stop, done := s.stop, s.done
    s.mu.Unlock()

    close(stop)
    <-done
    log.Println("scheduler: stopped")
}

// Status reports whether the scheduler is running and, if so, when the
// next pass is due.  NextRun is nil while stopped.
func (s *Scheduler) Status() Status {
    s.mu.Lock()
    defer s.mu.Unlock()
    st := Status{IsRunning: s.running}
    if s.running {
        next := s.nextRun
        st.NextRun = &next
    }
    return st
}

// RunNow executes a single pass immediately, independent of the timer
// and of whether the scheduler is running.  It does not reset the
// periodic timer.
func (s *Scheduler) RunNow(ctx context.Context) (service.Summary, error) {
    log.Println("scheduler: manual run triggered")
    return s.runner.ProcessAll(ctx)
}

func (s *Scheduler) loop(stop, done chan struct{}) {
    defer close(done)
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-stop:
            return
        case <-ticker.C:
            s.mu.Lock()
            s.nextRun = s.clock.Now().Add(s.interval)
            s.mu.Unlock()
            if _, err := s.runner.ProcessAll(context.Background()); err != nil {
                log.Printf("scheduler: reminder pass error: %v", err)
            }
        }
    }
}
