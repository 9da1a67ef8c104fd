package worker

import (
	"time"
)

// Job asks the worker for one pruning run.
type Job struct {
	Reason    string // "schedule", "startup", "reload", ...
	Requested time.Time
}
