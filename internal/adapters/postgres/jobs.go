package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bizready/internal/ports"
)

// ClaimNext selects the next queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job ports.AssessmentJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
        SELECT id::text, assessment_id::text FROM assessment_jobs
        WHERE status = 'queued'
        ORDER BY queued_at
        FOR UPDATE SKIP LOCKED
        LIMIT 1
    `).Scan(&job.ID, &job.AssessmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}

	if _, err = tx.Exec(ctx, `
        UPDATE assessment_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
    `, job.ID); err != nil {
		return job, false, err
	}
	if _, err = tx.Exec(ctx, `
        UPDATE assessments SET status='running', started_at=COALESCE(started_at, now()) WHERE id=$1
    `, job.AssessmentID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

func (db *DB) MarkCompleted(ctx context.Context, jobID string) error {
	return db.finishJob(ctx, jobID, "completed", nil)
}

// MarkFailed records reason on the assessment so clients can see it.
func (db *DB) MarkFailed(ctx context.Context, jobID string, reason string) error {
	return db.finishJob(ctx, jobID, "failed", &reason)
}

func (db *DB) finishJob(ctx context.Context, jobID, status string, reason *string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var assessmentID string
	if err = tx.QueryRow(ctx, `SELECT assessment_id::text FROM assessment_jobs WHERE id=$1`, jobID).Scan(&assessmentID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE assessment_jobs SET status=$2, finished_at=now() WHERE id=$1`, jobID, status); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE assessments SET status=$2, error=$3, finished_at=now() WHERE id=$1`, assessmentID, status, reason); err != nil {
		return err
	}
	return nil
}
