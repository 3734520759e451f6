package app

import "time"

// Run tracks one invocation of a tool from start to finish.
type Run struct {
	ID         string
	Tool       string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string // "running", "success" or "error"
	Err        string
}

// NewRun creates a run that started at the given time.
func NewRun(id, tool string, startedAt time.Time) *Run {
	return &Run{
		ID:        id,
		Tool:      tool,
		StartedAt: startedAt,
		Status:    "running",
	}
}

// Finish records the outcome of the run.
func (r *Run) Finish(err error, at time.Time) {
	r.FinishedAt = at
	if err != nil {
		r.Status = "error"
		r.Err = err.Error()
		return
	}
	r.Status = "success"
}
