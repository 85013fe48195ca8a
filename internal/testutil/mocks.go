// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockSource is a test double for domain.TaskSource and domain.TaskWatcher.
// Fields are ordered to minimize memory padding.
type MockSource struct {
	Tasks      []domain.Task
	LoadErr    error
	WatchErr   error
	mu         sync.Mutex
	watchFn    domain.WatchFunc
	LoadCalls  int
	WatchCalls int
	StopCalls  int
	stopped    bool
}

// Ensure MockSource implements the ports.
var (
	_ domain.TaskSource  = (*MockSource)(nil)
	_ domain.TaskWatcher = (*MockSource)(nil)
)

// Load returns the configured tasks or error.
func (m *MockSource) Load(_ context.Context, _ string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Tasks, nil
}

// Watch records the handler and returns a stop function.
func (m *MockSource) Watch(_ context.Context, _ string, fn domain.WatchFunc) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WatchCalls++
	if m.WatchErr != nil {
		return nil, m.WatchErr
	}
	m.watchFn = fn
	m.stopped = false
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.StopCalls++
		m.stopped = true
	}, nil
}

// Emit delivers a change notification to the registered handler, honoring
// the stop gate the way a real watcher must.
func (m *MockSource) Emit(tasks []domain.Task, err error) {
	m.mu.Lock()
	fn := m.watchFn
	stopped := m.stopped
	m.mu.Unlock()
	if fn == nil || stopped {
		return
	}
	fn(tasks, err)
}

// MockSink is a test double for domain.ProgressSink.
type MockSink struct {
	ApplyErr error
	Updates  []domain.ProgressUpdate
}

// Ensure MockSink implements the port.
var _ domain.ProgressSink = (*MockSink)(nil)

// ApplyProgress records the update and returns the configured error.
func (m *MockSink) ApplyProgress(_ context.Context, update domain.ProgressUpdate) error {
	if m.ApplyErr != nil {
		return m.ApplyErr
	}
	m.Updates = append(m.Updates, update)
	return nil
}
