package correlate

import (
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// semanticHeuristic is a deliberately simple stand-in for an external-model
// strategy. It looks for overlap between a task's title words and the commit
// message or changed file paths. It is an extension seam, not a classifier.
type semanticHeuristic struct {
	clock domain.Clock
}

func (h *semanticHeuristic) Analyze(commit domain.CommitRecord, tasks []*domain.Task) domain.CorrelationResult {
	msg := strings.ToLower(commit.Message)
	paths := strings.ToLower(strings.Join(commit.Files, " "))

	var best *domain.Task
	bestHits := 0
	for _, t := range tasks {
		hits := 0
		for _, word := range titleWords(t.Title) {
			if strings.Contains(msg, word) || strings.Contains(paths, word) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = t
		}
	}

	res := domain.CorrelationResult{
		AnalyzedAt: h.clock.Now(),
		CommitHash: commit.Hash,
		Method:     domain.MethodAI,
		Progress:   estimateProgress(msg),
		Action:     domain.ActionNone,
	}
	if best == nil {
		res.Reasoning = "no keyword overlap with any task"
		res.Progress = domain.ProgressUnknown
		return res
	}

	res.TaskID = best.ID
	res.Confidence = 0.4
	res.Reasoning = fmt.Sprintf("keyword overlap with task %q (%d terms)", best.Title, bestHits)
	return res
}

// titleWords returns the lowercased words of a title longer than three
// characters, filtering out connective noise.
func titleWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;()[]")
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}
