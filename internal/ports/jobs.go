package ports

import "context"

// Dispatch says who runs the job of a new assessment.
type Dispatch int

const (
	// DispatchQueued leaves the job for the worker pool.
	DispatchQueued Dispatch = iota
	// DispatchInline creates the job already running, so ClaimNext never
	// sees it and only the creating caller finishes it.
	DispatchInline
)

type AssessmentJob struct {
	ID           string
	AssessmentID string
}

// JobRepository supports claiming and updating queued assessment jobs.
type JobRepository interface {
	ClaimNext(ctx context.Context) (job AssessmentJob, found bool, err error)
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
}
