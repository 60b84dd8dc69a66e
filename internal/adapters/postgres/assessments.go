package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bizready/internal/domain"
	"bizready/internal/ports"
)

// AssessmentRepository

// Create stores the request and its job in one transaction. Inline jobs are
// written as running so ClaimNext skips them.
func (db *DB) Create(ctx context.Context, req ports.AssessmentRequest, dispatch ports.Dispatch) (job ports.AssessmentJob, err error) {
	job = ports.AssessmentJob{ID: uuid.NewString(), AssessmentID: uuid.NewString()}
	status := "queued"
	if dispatch == ports.DispatchInline {
		status = "running"
	}
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ports.AssessmentJob{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	chars := req.Characteristics
	if chars == nil {
		chars = domain.Characteristics{}
	}
	if _, err = tx.Exec(ctx, `
        INSERT INTO assessments (id, business_type_id, location_id, characteristics, as_of, status, started_at)
        VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6 = 'running' THEN now() END)
    `, job.AssessmentID, req.BusinessTypeID, req.LocationID, map[string]any(chars), req.AsOf, status); err != nil {
		return ports.AssessmentJob{}, err
	}
	if _, err = tx.Exec(ctx, `
        INSERT INTO assessment_jobs (id, assessment_id, status, attempts, started_at)
        VALUES ($1, $2, $3, CASE WHEN $3 = 'running' THEN 1 ELSE 0 END, CASE WHEN $3 = 'running' THEN now() END)
    `, job.ID, job.AssessmentID, status); err != nil {
		return ports.AssessmentJob{}, err
	}
	return job, nil
}

func (db *DB) Request(ctx context.Context, assessmentID string) (ports.AssessmentRequest, error) {
	var req ports.AssessmentRequest
	if _, err := uuid.Parse(assessmentID); err != nil {
		return req, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	var chars map[string]any
	err := db.Pool.QueryRow(ctx, `
        SELECT business_type_id, location_id, characteristics, as_of
        FROM assessments WHERE id = $1
    `, assessmentID).Scan(&req.BusinessTypeID, &req.LocationID, &chars, &req.AsOf)
	if errors.Is(err, pgx.ErrNoRows) {
		return req, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	req.Characteristics = domain.Characteristics(chars)
	return req, err
}

func (db *DB) Status(ctx context.Context, assessmentID string) (ports.AssessmentStatus, error) {
	st := ports.AssessmentStatus{ID: assessmentID}
	if _, err := uuid.Parse(assessmentID); err != nil {
		return st, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	err := db.Pool.QueryRow(ctx, `
        SELECT status, COALESCE(error, ''), plan FROM assessments WHERE id = $1
    `, assessmentID).Scan(&st.Status, &st.Error, &st.Plan)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	return st, err
}

func (db *DB) SavePlan(ctx context.Context, assessmentID string, plan []byte) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE assessments SET plan = $2 WHERE id = $1`, assessmentID, plan)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	return nil
}
