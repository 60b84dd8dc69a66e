package assessrunner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bizready/internal/ports"
)

// Processor performs the assessment work for a job's assessment id.
type Processor interface {
	Process(ctx context.Context, assessmentID string) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, assessmentID string) error

func (f ProcessorFunc) Process(ctx context.Context, assessmentID string) error {
	return f(ctx, assessmentID)
}

// Run starts worker goroutines that claim jobs and process them. It blocks
// until ctx is cancelled and every worker has drained.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration, logger *slog.Logger) {
	if concurrency < 1 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	jobsCh := make(chan ports.AssessmentJob, concurrency)

	// dispatcher loop
	go func() {
		defer close(jobsCh)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						logger.Error("job claim failed", slog.String("error", err.Error()))
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			log := logger.With(slog.Int("worker", idx))
			for job := range jobsCh {
				if err := finish(ctx, repo, processor, job); err != nil {
					log.Error("assessment job failed",
						slog.String("job_id", job.ID),
						slog.String("assessment_id", job.AssessmentID),
						slog.String("error", err.Error()))
				}
			}
		}(i)
	}
	wg.Wait()
}

// ProcessInline runs a job created with ports.DispatchInline synchronously,
// with the same processor the workers use, then completes or fails it.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, job ports.AssessmentJob) error {
	return finish(ctx, repo, processor, job)
}

func finish(ctx context.Context, repo ports.JobRepository, processor Processor, job ports.AssessmentJob) error {
	if err := processor.Process(ctx, job.AssessmentID); err != nil {
		_ = repo.MarkFailed(context.WithoutCancel(ctx), job.ID, err.Error())
		return err
	}
	return repo.MarkCompleted(context.WithoutCancel(ctx), job.ID)
}
