package domain

import "time"

// CommitRecord describes one version-control commit as consumed by the
// correlation engine. Fields are ordered to minimize memory padding.
type CommitRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Hash       string    `json:"hash"`    // Full hex commit hash
	Message    string    `json:"message"` // Commit message text
	Author     string    `json:"author"`
	Files      []string  `json:"files,omitempty"` // Changed file paths
	Insertions int       `json:"insertions"`
	Deletions  int       `json:"deletions"`
}

// CorrelationMethod identifies how a correlation result was determined.
type CorrelationMethod string

const (
	MethodRegex    CorrelationMethod = "regex"
	MethodSemantic CorrelationMethod = "semantic"
	MethodManual   CorrelationMethod = "manual"
	MethodAI       CorrelationMethod = "ai"
)

// ProgressEstimate describes how far a commit appears to advance a task.
type ProgressEstimate string

const (
	ProgressStarted    ProgressEstimate = "started"
	ProgressInProgress ProgressEstimate = "in-progress"
	ProgressCompleted  ProgressEstimate = "completed"
	ProgressUnknown    ProgressEstimate = "unknown"
)

// SuggestedAction describes what a consumer should do with a correlation result.
type SuggestedAction string

const (
	ActionUpdateStatus SuggestedAction = "update-status"
	ActionAddProgress  SuggestedAction = "add-progress"
	ActionCreateTask   SuggestedAction = "create-task"
	ActionNone         SuggestedAction = "none"
)

// CorrelationResult links one commit to the task it most likely advances.
// TaskID is empty when no task could be identified. Results are transient
// value objects; the caller decides whether to persist them.
// Fields are ordered to minimize memory padding.
type CorrelationResult struct {
	AnalyzedAt time.Time         `json:"analyzedAt"`
	CommitHash string            `json:"commitHash"`
	TaskID     string            `json:"taskId,omitempty"`
	Reasoning  string            `json:"reasoning"`
	Method     CorrelationMethod `json:"method"`
	Progress   ProgressEstimate  `json:"progress"`
	Action     SuggestedAction   `json:"action"`
	Confidence float64           `json:"confidence"` // In [0.0, 1.0]
}

// ProgressUpdate is the payload sent to a ProgressSink when a correlation
// result is confident enough to act on.
type ProgressUpdate struct {
	TaskID     string
	CommitHash string
	Action     SuggestedAction
	Progress   ProgressEstimate
	Note       string
}
