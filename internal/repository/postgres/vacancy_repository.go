package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talentflow/internal/common"
	"talentflow/internal/domain/vacancy"
)

type VacancyRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewVacancyRepository(db *sql.DB, timeout time.Duration) *VacancyRepository {
	return &VacancyRepository{db: db, timeout: timeout}
}

const vacancyColumns = `id, requisition_id, platforms, status, publication_date, closing_date, close_reason, created_at, updated_at`

func scanVacancy(row interface{ Scan(...any) error }) (*vacancy.Vacancy, error) {
	var v vacancy.Vacancy
	var closeReason sql.NullString
	err := row.Scan(&v.ID, &v.RequisitionID, pq.Array(&v.Platforms), &v.Status, &v.PublicationDate, &v.ClosingDate, &closeReason, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.CloseReason = closeReason.String
	return &v, nil
}

// Create relies on the unique index on requisition_id: two concurrent
// publishes for the same requisition cannot both insert.
func (r *VacancyRepository) Create(ctx context.Context, v vacancy.Vacancy) (*vacancy.Vacancy, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO vacancies (requisition_id, platforms, status, publication_date, closing_date, close_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		v.RequisitionID, pq.Array(v.Platforms), v.Status, v.PublicationDate, v.ClosingDate, nullString(v.CloseReason), v.CreatedAt, v.UpdatedAt).Scan(&v.ID)
	if err != nil {
		return nil, dbError("failed to create vacancy", err)
	}
	return &v, nil
}

func (r *VacancyRepository) GetByID(ctx context.Context, id int64) (*vacancy.Vacancy, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	v, err := scanVacancy(r.db.QueryRowContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "vacancy not found", err)
		}
		return nil, dbError("failed to load vacancy", err)
	}
	return v, nil
}

func (r *VacancyRepository) GetByRequisition(ctx context.Context, requisitionID int64) (*vacancy.Vacancy, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	v, err := scanVacancy(r.db.QueryRowContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE requisition_id = $1`, requisitionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "vacancy not found", err)
		}
		return nil, dbError("failed to load vacancy", err)
	}
	return v, nil
}

func (r *VacancyRepository) ListByStatus(ctx context.Context, status vacancy.Status) ([]vacancy.Vacancy, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	query := `SELECT ` + vacancyColumns + ` FROM vacancies`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to list vacancies", err)
	}
	defer rows.Close()
	var items []vacancy.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, dbError("failed to scan vacancy", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

func (r *VacancyRepository) UpdateStatus(ctx context.Context, id int64, expected, next vacancy.Status, update vacancy.StatusUpdate) (*vacancy.Vacancy, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE vacancies SET status = $1,
		publication_date = COALESCE($2, publication_date),
		closing_date = COALESCE($3, closing_date),
		close_reason = COALESCE($4, close_reason),
		updated_at = $5
		WHERE id = $6 AND status = $7`,
		next, update.PublicationDate, update.ClosingDate, nullString(update.CloseReason), time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update vacancy status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "vacancy status changed concurrently", nil)
	}
	return r.GetByID(ctx, id)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
