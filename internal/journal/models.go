package journal

import "time"

// RunStatus tracks the lifecycle of a cleanup run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunCompleted   RunStatus = "completed"
	RunInterrupted RunStatus = "interrupted"
	RunFailed      RunStatus = "failed"
)

// OperationStatus records whether an operation succeeded.
type OperationStatus string

const (
	OperationMoved  OperationStatus = "moved"
	OperationFailed OperationStatus = "failed"
)

// Run is a single invocation against a root directory.
type Run struct {
	ID         string
	Root       string
	Status     RunStatus
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Moved      int
	Failed     int
	Pruned     int
	Bytes      int64
	Error      string
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Operation is a journaled relocation or failure.
type Operation struct {
	RunID        string
	Seq          int
	Source       string
	Dest         string
	Action       string
	Category     string
	Status       OperationStatus
	ErrorKind    string
	ErrorMessage string
}
