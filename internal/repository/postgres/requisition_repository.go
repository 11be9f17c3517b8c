package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talentflow/internal/common"
	"talentflow/internal/domain/requisition"
)

type RequisitionRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewRequisitionRepository(db *sql.DB, timeout time.Duration) *RequisitionRepository {
	return &RequisitionRepository{db: db, timeout: timeout}
}

func (r *RequisitionRepository) Create(ctx context.Context, req requisition.Requisition) (*requisition.Requisition, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO requisitions (position_name, functions, salary_category, profile, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		req.PositionName, pq.Array(req.Functions), req.SalaryCategory, req.Profile, req.Status, req.CreatedAt, req.UpdatedAt).Scan(&req.ID)
	if err != nil {
		return nil, dbError("failed to create requisition", err)
	}
	return &req, nil
}

func (r *RequisitionRepository) GetByID(ctx context.Context, id int64) (*requisition.Requisition, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT id, position_name, functions, salary_category, profile, status, created_at, updated_at
		FROM requisitions WHERE id = $1`, id)
	var req requisition.Requisition
	if err := row.Scan(&req.ID, &req.PositionName, pq.Array(&req.Functions), &req.SalaryCategory, &req.Profile, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "requisition not found", err)
		}
		return nil, dbError("failed to load requisition", err)
	}
	return &req, nil
}

func (r *RequisitionRepository) ListByStatus(ctx context.Context, status requisition.Status) ([]requisition.Requisition, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	query := `SELECT id, position_name, functions, salary_category, profile, status, created_at, updated_at
		FROM requisitions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to list requisitions", err)
	}
	defer rows.Close()
	var items []requisition.Requisition
	for rows.Next() {
		var req requisition.Requisition
		if err := rows.Scan(&req.ID, &req.PositionName, pq.Array(&req.Functions), &req.SalaryCategory, &req.Profile, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, dbError("failed to scan requisition", err)
		}
		items = append(items, req)
	}
	return items, rows.Err()
}

func (r *RequisitionRepository) UpdateStatus(ctx context.Context, id int64, expected, next requisition.Status) (*requisition.Requisition, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE requisitions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update requisition status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *RequisitionRepository) casMiss(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
		return err
	}
	return common.NewError(common.CodeConflict, "requisition status changed concurrently", nil)
}
