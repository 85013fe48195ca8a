package correlate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newTestEngine() *Engine {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	return NewEngine(clock, nil)
}

func TestTaskReferences(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "hash prefixed",
			message: "fix task #27.6 validation bug",
			want:    []string{"27.6"},
		},
		{
			name:    "work verb",
			message: "wip: start working on 12",
			want:    []string{"12"},
		},
		{
			name:    "keyword with colon",
			message: "implement: 4 the new flow",
			want:    []string{"4"},
		},
		{
			name:    "closing verb",
			message: "this addresses 14 finally",
			want:    []string{"14"},
		},
		{
			name:    "subtask prefix",
			message: "subtask 3.2 groundwork",
			want:    []string{"3.2"},
		},
		{
			name:    "bare dotted id",
			message: "tweak layout per 27.6",
			want:    []string{"27.6"},
		},
		{
			name:    "multiple references merge in rule order",
			message: "task 5 also touches #9 and 2.1",
			want:    []string{"5", "9", "2.1"},
		},
		{
			name:    "duplicates collapse to first seen",
			message: "fixes #7, task 7 done",
			want:    []string{"7"},
		},
		{
			name:    "no references",
			message: "refactor helper functions",
			want:    nil,
		},
		{
			name:    "plain words with digits inside identifiers are ignored",
			message: "bump utf8 handling",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskReferences(tt.message))
		})
	}
}

func TestAnalyze_SubtaskFixCommit(t *testing.T) {
	e := newTestEngine()
	commit := domain.CommitRecord{
		Hash:    "abc123def456",
		Message: "fix task #27.6 validation bug",
		Files:   []string{"internal/validate/rules.go"},
	}

	res := e.Analyze(commit, nil, Options{})

	assert.Equal(t, "27.6", res.TaskID)
	assert.Equal(t, domain.MethodRegex, res.Method)
	assert.Equal(t, domain.ProgressCompleted, res.Progress, `"fix" is a completion keyword`)
	// 0.5 base + 0.2 task + 0.1 fix + 0.1 dotted + 0.05 files
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
	assert.Equal(t, domain.ActionUpdateStatus, res.Action)
	assert.Equal(t, "abc123def456", res.CommitHash)
	assert.False(t, res.AnalyzedAt.IsZero())
}

func TestAnalyze_StartCommit(t *testing.T) {
	e := newTestEngine()
	commit := domain.CommitRecord{
		Hash:    "feedbeef0000",
		Message: "wip: start working on 12",
	}

	res := e.Analyze(commit, nil, Options{})

	assert.Equal(t, "12", res.TaskID)
	assert.Equal(t, domain.ProgressStarted, res.Progress)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.Equal(t, domain.ActionAddProgress, res.Action)
}

func TestAnalyze_NoReferenceNoAI(t *testing.T) {
	e := newTestEngine()
	commit := domain.CommitRecord{
		Hash:    "0123456789ab",
		Message: "refactor helper functions",
	}

	res := e.Analyze(commit, nil, Options{UseAI: false})

	assert.Empty(t, res.TaskID)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, domain.MethodRegex, res.Method)
	assert.Equal(t, domain.ProgressUnknown, res.Progress)
	assert.Equal(t, domain.ActionNone, res.Action)
}

func TestAnalyze_NoReferenceWithAI(t *testing.T) {
	e := newTestEngine()
	tasks := []*domain.Task{
		{ID: "42", Title: "Improve validation rules"},
		{ID: "43", Title: "Ship billing exports"},
	}
	commit := domain.CommitRecord{
		Hash:    "cafe00000000",
		Message: "tighten validation edge cases",
		Files:   []string{"internal/validation/rules.go"},
	}

	res := e.Analyze(commit, tasks, Options{UseAI: true})

	assert.Equal(t, domain.MethodAI, res.Method)
	assert.Equal(t, "42", res.TaskID)
	assert.Greater(t, res.Confidence, 0.0)
	assert.Less(t, res.Confidence, 0.5, "the heuristic placeholder never reaches the apply gate")
}

func TestAnalyze_ConfidenceCappedAtOne(t *testing.T) {
	e := newTestEngine()
	commit := domain.CommitRecord{
		Hash:    "ffff00000000",
		Message: "complete task 3.1, fix task #9",
		Files:   []string{"a.go"},
	}

	res := e.Analyze(commit, nil, Options{})

	// 0.5 + 0.2 + 0.1 + 0.2 + 0.1 multi + 0.1 dotted + 0.05 files = 1.25, capped.
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, "3.1", res.TaskID, "first reference wins")
}

func TestEstimateProgress_PriorityOrder(t *testing.T) {
	tests := []struct {
		message string
		want    domain.ProgressEstimate
	}{
		{"finish and polish the setup", domain.ProgressCompleted}, // completion beats start
		{"initial setup for exporter", domain.ProgressStarted},
		{"improve error messages", domain.ProgressInProgress},
		{"misc housekeeping", domain.ProgressUnknown},
		{"prefix handling for ids", domain.ProgressCompleted}, // substring match: "prefix" contains "fix"
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, estimateProgress(tt.message), "message %q", tt.message)
	}
}

func TestSuggestAction(t *testing.T) {
	tests := []struct {
		confidence float64
		progress   domain.ProgressEstimate
		want       domain.SuggestedAction
	}{
		{0.4, domain.ProgressCompleted, domain.ActionNone},
		{0.6, domain.ProgressCompleted, domain.ActionAddProgress},
		{0.8, domain.ProgressCompleted, domain.ActionUpdateStatus},
		{0.6, domain.ProgressStarted, domain.ActionAddProgress},
		{0.6, domain.ProgressInProgress, domain.ActionAddProgress},
		{0.9, domain.ProgressUnknown, domain.ActionNone},
	}

	for _, tt := range tests {
		got := suggestAction(tt.confidence, tt.progress)
		assert.Equal(t, tt.want, got, "confidence=%v progress=%v", tt.confidence, tt.progress)
	}
}

func TestUpdateTaskProgress_Gate(t *testing.T) {
	e := newTestEngine()
	sink := &testutil.MockSink{}
	ctx := context.Background()

	// No task id.
	ok, err := e.UpdateTaskProgress(ctx, domain.CorrelationResult{Confidence: 0.9}, sink)
	require.NoError(t, err)
	assert.False(t, ok)

	// Low confidence.
	ok, err = e.UpdateTaskProgress(ctx, domain.CorrelationResult{TaskID: "7", Confidence: 0.4}, sink)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sink.Updates)

	// Confident result reaches the sink.
	corr := domain.CorrelationResult{
		TaskID:     "7",
		CommitHash: "abc",
		Confidence: 0.8,
		Action:     domain.ActionAddProgress,
		Progress:   domain.ProgressInProgress,
		Reasoning:  "matched",
	}
	ok, err = e.UpdateTaskProgress(ctx, corr, sink)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, sink.Updates, 1)
	assert.Equal(t, "7", sink.Updates[0].TaskID)
	assert.Equal(t, domain.ActionAddProgress, sink.Updates[0].Action)
}

func TestUpdateTaskProgress_SinkError(t *testing.T) {
	e := newTestEngine()
	sink := &testutil.MockSink{ApplyErr: assert.AnError}

	ok, err := e.UpdateTaskProgress(context.Background(), domain.CorrelationResult{
		TaskID:     "7",
		Confidence: 0.8,
	}, sink)

	assert.False(t, ok)
	require.Error(t, err)
}
