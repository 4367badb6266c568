package scheduler

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/advisor-booking/internal/service"
)

// countingRunner counts ProcessAll invocations.
type countingRunner struct {
    mu   sync.Mutex
    runs int
    sum  service.Summary
}

func (r *countingRunner) ProcessAll(context.Context) (service.Summary, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.runs++
    return r.sum, nil
}

func (r *countingRunner) count() int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.runs
}

func TestSchedulerLifecycle(t *testing.T) {
    runner := &countingRunner{}
    s := New(runner, service.SystemClock{}, 10*time.Millisecond)

    st := s.Status()
    assert.False(t, st.IsRunning)
    assert.Nil(t, st.NextRun, "nextRun is absent while stopped")

    s.Start()
    st = s.Status()
    assert.True(t, st.IsRunning)
    require.NotNil(t, st.NextRun)

    assert.Eventually(t, func() bool { return runner.count() > 0 },
        2*time.Second, 5*time.Millisecond, "the loop should tick")

    s.Stop()
    st = s.Status()
    assert.False(t, st.IsRunning)
    assert.Nil(t, st.NextRun)

    // No further ticks after Stop returns.
    settled := runner.count()
    time.Sleep(50 * time.Millisecond)
    assert.Equal(t, settled, runner.count())
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
    runner := &countingRunner{}
    s := New(runner, service.SystemClock{}, time.Hour)

    s.Stop() // stopping a stopped scheduler is a no-op
    s.Start()
    s.Start() // starting twice leaves one loop running
    assert.True(t, s.Status().IsRunning)

    s.Stop()
    s.Stop()
    assert.False(t, s.Status().IsRunning)
}

func TestSchedulerRestart(t *testing.T) {
    runner := &countingRunner{}
    s := New(runner, service.SystemClock{}, 10*time.Millisecond)

    s.Start()
    assert.Eventually(t, func() bool { return runner.count() > 0 }, 2*time.Second, 5*time.Millisecond)
    s.Stop()

    before := runner.count()
    s.Start()
    assert.Eventually(t, func() bool { return runner.count() > before }, 2*time.Second, 5*time.Millisecond)
    s.Stop()
}

func TestRunNowIndependentOfTimer(t *testing.T) {
    runner := &countingRunner{sum: service.Summary{
        Total: service.BatchResult{Sent: 3, Errors: 1},
    }}
    s := New(runner, service.SystemClock{}, time.Hour)

    // Works while stopped.
    sum, err := s.RunNow(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 3, sum.Total.Sent)
    assert.Equal(t, 1, runner.count())
    assert.False(t, s.Status().IsRunning, "a manual run does not start the loop")

    // And while running, without touching the timer.
    s.Start()
    defer s.Stop()
    _, err = s.RunNow(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 2, runner.count())
}

func TestSchedulerNextRunTracksClock(t *testing.T) {
    runner := &countingRunner{}
    interval := time.Hour
    s := New(runner, service.SystemClock{}, interval)

    before := time.Now().UTC()
    s.Start()
    defer s.Stop()

    st := s.Status()
    require.NotNil(t, st.NextRun)
    assert.WithinDuration(t, before.Add(interval), *st.NextRun, 5*time.Second)
}

func TestSchedulerDefaults(t *testing.T) {
    s := New(&countingRunner{}, nil, 0)
    assert.Equal(t, DefaultInterval, s.interval)
    assert.NotNil(t, s.clock)
}
