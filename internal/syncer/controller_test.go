package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newTestStore() *store.Store {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	return store.New("proj", clock)
}

func TestSyncWithFileSystem_Success(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{
		Tasks: []domain.Task{
			{ID: "1", Title: "A", Status: domain.StatusPending},
			{ID: "2", Title: "B", Status: domain.StatusDone},
		},
	}
	c := New(st, source, source, nil)

	c.SyncWithFileSystem(context.Background(), "/proj")

	assert.Empty(t, st.Err())
	assert.False(t, st.Loading())
	require.Len(t, st.AllTasks(), 2)
	assert.Equal(t, 1, source.LoadCalls)
}

func TestSyncWithFileSystem_FailurePreservesData(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{
		Tasks: []domain.Task{{ID: "1", Title: "A", Status: domain.StatusPending}},
	}
	c := New(st, source, source, nil)
	c.SyncWithFileSystem(context.Background(), "/proj")
	require.Len(t, st.AllTasks(), 1)

	source.LoadErr = errors.New("exploded")
	c.SyncWithFileSystem(context.Background(), "/proj")

	assert.Contains(t, st.Err(), "exploded")
	assert.False(t, st.Loading(), "loading must clear on failure")
	assert.Len(t, st.AllTasks(), 1, "a failed sync must never wipe loaded data")
}

func TestSyncWithFileSystem_ClearsPreviousError(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{LoadErr: errors.New("first failure")}
	c := New(st, source, source, nil)
	c.SyncWithFileSystem(context.Background(), "/proj")
	require.NotEmpty(t, st.Err())

	source.LoadErr = nil
	c.SyncWithFileSystem(context.Background(), "/proj")
	assert.Empty(t, st.Err())
}

func TestStartRealtimeSync_AppliesNotifications(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, source, nil)

	c.StartRealtimeSync(context.Background(), "/proj")
	require.Equal(t, "/proj", c.Watching())

	source.Emit([]domain.Task{{ID: "9", Title: "Fresh", Status: domain.StatusPending}}, nil)
	require.Len(t, st.AllTasks(), 1)
	assert.Equal(t, "9", st.AllTasks()[0].ID)
}

func TestStartRealtimeSync_NotificationErrorSetsStoreError(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, source, nil)
	c.StartRealtimeSync(context.Background(), "/proj")

	source.Emit(nil, errors.New("watch hiccup"))
	assert.Contains(t, st.Err(), "watch hiccup")
	assert.Empty(t, st.AllTasks(), "failed notification must not touch data")
}

func TestStartRealtimeSync_IdempotentSamePath(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, source, nil)

	c.StartRealtimeSync(context.Background(), "/proj")
	c.StartRealtimeSync(context.Background(), "/proj")

	assert.Equal(t, 1, source.WatchCalls, "re-invoking for the same path must not stack watchers")
}

func TestStartRealtimeSync_NewPathReplacesWatch(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, source, nil)

	c.StartRealtimeSync(context.Background(), "/proj-a")
	c.StartRealtimeSync(context.Background(), "/proj-b")

	assert.Equal(t, 2, source.WatchCalls)
	assert.Equal(t, 1, source.StopCalls, "previous watch must be stopped first")
	assert.Equal(t, "/proj-b", c.Watching())
}

func TestStartRealtimeSync_WatchStartFailure(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{WatchErr: errors.New("no inotify for you")}
	c := New(st, source, source, nil)

	c.StartRealtimeSync(context.Background(), "/proj")

	assert.Contains(t, st.Err(), "no inotify for you")
	assert.Empty(t, c.Watching())
}

func TestStopRealtimeSync(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, source, nil)

	// Safe with no active watch.
	c.StopRealtimeSync()

	c.StartRealtimeSync(context.Background(), "/proj")
	c.StopRealtimeSync()
	assert.Empty(t, c.Watching())
	assert.Equal(t, 1, source.StopCalls)

	// Notifications after stop must not reach the store.
	source.Emit([]domain.Task{{ID: "9", Title: "Late", Status: domain.StatusPending}}, nil)
	assert.Empty(t, st.AllTasks())
}

func TestNoWatcherConfigured(t *testing.T) {
	st := newTestStore()
	source := &testutil.MockSource{}
	c := New(st, source, nil, nil)

	c.StartRealtimeSync(context.Background(), "/proj")
	assert.Contains(t, st.Err(), "no watcher configured")
}
