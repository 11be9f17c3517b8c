package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/selection"
)

type SelectionRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSelectionRepository(db *sql.DB, timeout time.Duration) *SelectionRepository {
	return &SelectionRepository{db: db, timeout: timeout}
}

const selectionColumns = `id, vacancy_id, candidate_id, report, decision, reason, status, created_at, updated_at`

func scanSelection(row interface{ Scan(...any) error }) (*selection.Selection, error) {
	var s selection.Selection
	var report []byte
	var decision, reason sql.NullString
	err := row.Scan(&s.ID, &s.VacancyID, &s.CandidateID, &report, &decision, &reason, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Decision = selection.Decision(decision.String)
	s.Reason = reason.String
	if len(report) > 0 {
		var rep selection.Report
		if err := json.Unmarshal(report, &rep); err != nil {
			return nil, err
		}
		s.Report = &rep
	}
	return &s, nil
}

func (r *SelectionRepository) Create(ctx context.Context, s selection.Selection) (*selection.Selection, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO selections (vacancy_id, candidate_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.VacancyID, s.CandidateID, s.Status, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		return nil, dbError("failed to create selection", err)
	}
	return &s, nil
}

func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*selection.Selection, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	s, err := scanSelection(r.db.QueryRowContext(ctx, `SELECT `+selectionColumns+` FROM selections WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "selection not found", err)
		}
		return nil, dbError("failed to load selection", err)
	}
	return s, nil
}

func (r *SelectionRepository) ListByVacancy(ctx context.Context, vacancyID int64) ([]selection.Selection, error) {
	return r.list(ctx, `vacancy_id`, vacancyID)
}

func (r *SelectionRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]selection.Selection, error) {
	return r.list(ctx, `candidate_id`, candidateID)
}

func (r *SelectionRepository) list(ctx context.Context, column string, id int64) ([]selection.Selection, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectionColumns+` FROM selections WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, dbError("failed to list selections", err)
	}
	defer rows.Close()
	var items []selection.Selection
	for rows.Next() {
		s, err := scanSelection(rows)
		if err != nil {
			return nil, dbError("failed to scan selection", err)
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *SelectionRepository) UpdateReport(ctx context.Context, id int64, report selection.Report, expected, next selection.Status) (*selection.Selection, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	encoded, err := json.Marshal(report)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode report", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE selections SET report = $1, status = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		encoded, next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update selection report", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *SelectionRepository) UpdateDecision(ctx context.Context, id int64, decision selection.Decision, reason string, expected, next selection.Status) (*selection.Selection, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE selections SET decision = $1, reason = $2, status = $3, updated_at = $4 WHERE id = $5 AND status = $6`,
		string(decision), nullString(reason), next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update selection decision", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *SelectionRepository) casMiss(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
		return err
	}
	return common.NewError(common.CodeConflict, "selection changed concurrently", nil)
}
