package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"talentflow/internal/common"
	"talentflow/internal/domain/candidate"
)

type CandidateRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewCandidateRepository(db *sql.DB, timeout time.Duration) *CandidateRepository {
	return &CandidateRepository{db: db, timeout: timeout}
}

const candidateColumns = `id, name, email, resume_url, vacancy_id, skills, experience_years, notes, status, applied_at, created_at, updated_at`

func scanCandidate(row interface{ Scan(...any) error }) (*candidate.Candidate, error) {
	var c candidate.Candidate
	var notes sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.ResumeURL, &c.VacancyID, pq.Array(&c.Skills), &c.ExperienceYears, &notes, &c.Status, &c.AppliedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Notes = notes.String
	return &c, nil
}

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) (*candidate.Candidate, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	c.AppliedAt = now
	c.CreatedAt = now
	c.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO candidates (name, email, resume_url, vacancy_id, skills, experience_years, notes, status, applied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		c.Name, c.Email, c.ResumeURL, c.VacancyID, pq.Array(c.Skills), c.ExperienceYears, nullString(c.Notes), c.Status, c.AppliedAt, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return nil, dbError("failed to create candidate", err)
	}
	return &c, nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*candidate.Candidate, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	c, err := scanCandidate(r.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "candidate not found", err)
		}
		return nil, dbError("failed to load candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) ListByVacancy(ctx context.Context, vacancyID int64) ([]candidate.Candidate, error) {
	return r.ListByFilter(ctx, candidate.Filter{VacancyID: vacancyID})
}

func (r *CandidateRepository) ListByFilter(ctx context.Context, filter candidate.Filter) ([]candidate.Candidate, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var clauses []string
	var args []any
	addClause := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.VacancyID > 0 {
		addClause("vacancy_id = $%d", filter.VacancyID)
	}
	if filter.Status != "" {
		addClause("status = $%d", filter.Status)
	}
	if filter.MinExperience > 0 {
		addClause("experience_years >= $%d", filter.MinExperience)
	}
	if len(filter.Skills) > 0 {
		addClause("skills @> $%d", pq.Array(filter.Skills))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY applied_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to list candidates", err)
	}
	defer rows.Close()
	var items []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, dbError("failed to scan candidate", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *CandidateRepository) UpdateStatus(ctx context.Context, id int64, expected, next candidate.Status) (*candidate.Candidate, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE candidates SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update candidate status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "candidate status changed concurrently", nil)
	}
	return r.GetByID(ctx, id)
}
