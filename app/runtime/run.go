package runtime

import (
	"sync"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusExhausted Status = "exhausted"
	StatusError     Status = "error"
)

// BuildTask describes one build run: which project, what the user asked
// for, and where generated files are confined to.
type BuildTask struct {
	ID        uuid.UUID
	ProjectID int64
	Input     string
	Root      string
	MaxRounds int
}

// Progress is an immutable snapshot of a run's externally visible state.
type Progress struct {
	Status    Status `json:"status"`
	Round     int    `json:"iteration"`
	MaxRounds int    `json:"max_iterations"`
	Narrative string `json:"output"`
	Done      bool   `json:"completed"`
}

// Run is the run-scoped progress handle returned by StartBuild. The
// controller goroutine is the only writer; pollers read snapshots
// concurrently.
type Run struct {
	task BuildTask

	mu       sync.RWMutex
	progress Progress
	err      error
	done     chan struct{}
}

func newRun(task BuildTask) *Run {
	return &Run{
		task: task,
		progress: Progress{
			Status:    StatusIdle,
			MaxRounds: task.MaxRounds,
		},
		done: make(chan struct{}),
	}
}

func (r *Run) Task() BuildTask {
	return r.task
}

// Snapshot returns a copy of the current progress, safe to poll at any
// cadence while the run executes.
func (r *Run) Snapshot() Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.progress
}

// Done is closed once the run reaches a terminal status.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Err reports the setup or cancellation error that ended the run, if any.
func (r *Run) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func (r *Run) setStatus(status Status) {
	r.mu.Lock()
	r.progress.Status = status
	r.mu.Unlock()
}

func (r *Run) advanceRound(round int) {
	r.mu.Lock()
	r.progress.Round = round
	r.mu.Unlock()
}

func (r *Run) appendNarrative(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	r.progress.Narrative += text
	r.mu.Unlock()
}

func (r *Run) finish(status Status, err error) {
	r.mu.Lock()
	r.progress.Status = status
	r.progress.Done = true
	r.err = err
	r.mu.Unlock()
	close(r.done)
}
