package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/evaluation"
)

type EvaluationRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewEvaluationRepository(db *sql.DB, timeout time.Duration) *EvaluationRepository {
	return &EvaluationRepository{db: db, timeout: timeout}
}

const evaluationColumns = `id, candidate_id, vacancy_id, tests, scores, status, assigned_at, completed_at, created_at, updated_at`

func scanEvaluation(row interface{ Scan(...any) error }) (*evaluation.Evaluation, error) {
	var e evaluation.Evaluation
	var tests, scores []byte
	err := row.Scan(&e.ID, &e.CandidateID, &e.VacancyID, &tests, &scores, &e.Status, &e.AssignedAt, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tests, &e.Tests); err != nil {
		return nil, err
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &e.Scores); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (r *EvaluationRepository) Create(ctx context.Context, e evaluation.Evaluation) (*evaluation.Evaluation, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	e.AssignedAt = now
	e.CreatedAt = now
	e.UpdatedAt = now
	tests, err := json.Marshal(e.Tests)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode tests", err)
	}
	scores, err := json.Marshal(e.Scores)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode scores", err)
	}
	err = r.db.QueryRowContext(ctx, `INSERT INTO evaluations (candidate_id, vacancy_id, tests, scores, status, assigned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		e.CandidateID, e.VacancyID, tests, scores, e.Status, e.AssignedAt, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		return nil, dbError("failed to create evaluation", err)
	}
	return &e, nil
}

func (r *EvaluationRepository) GetByID(ctx context.Context, id int64) (*evaluation.Evaluation, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	e, err := scanEvaluation(r.db.QueryRowContext(ctx, `SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "evaluation not found", err)
		}
		return nil, dbError("failed to load evaluation", err)
	}
	return e, nil
}

func (r *EvaluationRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]evaluation.Evaluation, error) {
	return r.list(ctx, `candidate_id`, candidateID)
}

func (r *EvaluationRepository) ListByVacancy(ctx context.Context, vacancyID int64) ([]evaluation.Evaluation, error) {
	return r.list(ctx, `vacancy_id`, vacancyID)
}

func (r *EvaluationRepository) list(ctx context.Context, column string, id int64) ([]evaluation.Evaluation, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+evaluationColumns+` FROM evaluations WHERE `+column+` = $1 ORDER BY assigned_at DESC`, id)
	if err != nil {
		return nil, dbError("failed to list evaluations", err)
	}
	defer rows.Close()
	var items []evaluation.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, dbError("failed to scan evaluation", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *EvaluationRepository) RecordScore(ctx context.Context, id int64, scores []evaluation.Score, expected, next evaluation.Status, readAt time.Time, completedAt *time.Time) (*evaluation.Evaluation, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	encoded, err := json.Marshal(scores)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode scores", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE evaluations SET scores = $1, status = $2, completed_at = $3, updated_at = $4
		WHERE id = $5 AND status = $6 AND updated_at = $7`,
		encoded, next, completedAt, time.Now().UTC(), id, expected, readAt)
	if err != nil {
		return nil, dbError("failed to record test result", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "evaluation changed concurrently", nil)
	}
	return r.GetByID(ctx, id)
}
