// Package correlate estimates which task a commit advances and how
// confidently. The default strategy is pattern-based; a semantic strategy
// exists as an extension seam for an external model.
package correlate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Strategy scores one commit against the available tasks.
type Strategy interface {
	Analyze(commit domain.CommitRecord, tasks []*domain.Task) domain.CorrelationResult
}

// Options configures an analysis run.
type Options struct {
	// UseAI enables the semantic fallback when no pattern reference is found.
	UseAI bool
}

// Reference extraction rules. All rules run; results merge into one
// de-duplicated set in first-seen order following this list.
var refPatterns = []*regexp.Regexp{
	// Work-verb references: "task 27", "fixes #3", "working on 12".
	regexp.MustCompile(`(?i)\b(?:task|fix|close|resolve|complete|implement|work(?:ing)?\s+on)(?:s|es)?\s*[:#]?\s*(\d+(?:\.\d+)?)`),
	// Hash-prefixed references: "#27", "#27.6".
	regexp.MustCompile(`#(\d+(?:\.\d+)?)`),
	// Subtask-prefixed references: "subtask 27.6", "sub #3.2".
	regexp.MustCompile(`(?i)\b(?:subtask|sub)s?\s*[:#]?\s*(\d+\.\d+)`),
	// Bare dotted identifiers anywhere: "27.6".
	regexp.MustCompile(`\b(\d+\.\d+)\b`),
	// Closing-verb references: "addresses 14".
	regexp.MustCompile(`(?i)\b(?:fixes|closes|resolves|addresses)\s*[:#]?\s*(\d+(?:\.\d+)?)`),
}

// Keyword sets for the progress estimate, checked in strict priority order.
var (
	completionWords = []string{"fix", "complete", "finish", "done", "resolve", "close", "final"}
	startWords      = []string{"start", "begin", "initial", "setup", "create", "add", "implement"}
	progressWords   = []string{"update", "modify", "change", "improve", "refactor", "enhance", "work"}
)

// TaskReferences extracts the unique, first-seen-order set of task
// identifiers from a commit message. A reference is a numeric string,
// optionally dotted as parent.sub for subtasks.
func TaskReferences(message string) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, re := range refPatterns {
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			id := m[1]
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			refs = append(refs, id)
		}
	}
	return refs
}

// Engine is the default pattern-based correlation strategy.
type Engine struct {
	semantic Strategy
	clock    domain.Clock
}

// NewEngine creates an engine. The semantic strategy is optional; when nil,
// a built-in keyword heuristic serves as the AI fallback.
func NewEngine(clock domain.Clock, semantic Strategy) *Engine {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if semantic == nil {
		semantic = &semanticHeuristic{clock: clock}
	}
	return &Engine{clock: clock, semantic: semantic}
}

// Analyze estimates which task the commit advances. When no reference is
// found and opts.UseAI is set, the semantic strategy takes over; otherwise
// an unmatched commit yields a zero-confidence result.
func (e *Engine) Analyze(commit domain.CommitRecord, tasks []*domain.Task, opts Options) domain.CorrelationResult {
	refs := TaskReferences(commit.Message)
	if len(refs) == 0 {
		if opts.UseAI {
			return e.semantic.Analyze(commit, tasks)
		}
		return domain.CorrelationResult{
			AnalyzedAt: e.clock.Now(),
			CommitHash: commit.Hash,
			Reasoning:  "no task reference found in commit message",
			Method:     domain.MethodRegex,
			Progress:   domain.ProgressUnknown,
			Action:     domain.ActionNone,
			Confidence: 0,
		}
	}

	// First reference wins; rule order doubles as priority order.
	taskID := refs[0]
	msg := strings.ToLower(commit.Message)

	confidence := 0.5
	if strings.Contains(msg, "task") {
		confidence += 0.2
	}
	if strings.Contains(msg, "fix") {
		confidence += 0.1
	}
	if strings.Contains(msg, "complete") {
		confidence += 0.2
	}
	if len(refs) > 1 {
		confidence += 0.1
	}
	if domain.IsSubtaskID(taskID) {
		confidence += 0.1
	}
	if len(commit.Files) > 0 {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	progress := estimateProgress(msg)

	return domain.CorrelationResult{
		AnalyzedAt: e.clock.Now(),
		CommitHash: commit.Hash,
		TaskID:     taskID,
		Reasoning:  fmt.Sprintf("matched task reference %q in commit message", taskID),
		Method:     domain.MethodRegex,
		Progress:   progress,
		Action:     suggestAction(confidence, progress),
		Confidence: confidence,
	}
}

// estimateProgress classifies the message by keyword, completion terms first.
// Matches are case-insensitive substrings; msg must already be lowercased.
func estimateProgress(msg string) domain.ProgressEstimate {
	if containsAny(msg, completionWords) {
		return domain.ProgressCompleted
	}
	if containsAny(msg, startWords) {
		return domain.ProgressStarted
	}
	if containsAny(msg, progressWords) {
		return domain.ProgressInProgress
	}
	return domain.ProgressUnknown
}

// suggestAction maps confidence and progress to a suggested action.
func suggestAction(confidence float64, progress domain.ProgressEstimate) domain.SuggestedAction {
	if confidence < 0.5 {
		return domain.ActionNone
	}
	switch progress {
	case domain.ProgressCompleted:
		if confidence > 0.7 {
			return domain.ActionUpdateStatus
		}
		return domain.ActionAddProgress
	case domain.ProgressStarted, domain.ProgressInProgress:
		return domain.ActionAddProgress
	default:
		return domain.ActionNone
	}
}

// UpdateTaskProgress forwards a confident correlation result to the sink.
// Returns false without touching the sink when the result has no task or
// its confidence is below 0.5.
func (e *Engine) UpdateTaskProgress(ctx context.Context, corr domain.CorrelationResult, sink domain.ProgressSink) (bool, error) {
	if corr.TaskID == "" || corr.Confidence < 0.5 {
		return false, nil
	}
	update := domain.ProgressUpdate{
		TaskID:     corr.TaskID,
		CommitHash: corr.CommitHash,
		Action:     corr.Action,
		Progress:   corr.Progress,
		Note:       corr.Reasoning,
	}
	if err := sink.ApplyProgress(ctx, update); err != nil {
		return false, fmt.Errorf("apply progress: %w", err)
	}
	return true, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
