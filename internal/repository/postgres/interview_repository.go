package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/interview"
)

type InterviewRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewInterviewRepository(db *sql.DB, timeout time.Duration) *InterviewRepository {
	return &InterviewRepository{db: db, timeout: timeout}
}

const interviewColumns = `id, candidate_id, interviewer_id, vacancy_id, interview_type, scheduled_time, duration_minutes, location, feedback, status, created_at, updated_at`

func scanInterview(row interface{ Scan(...any) error }) (*interview.Interview, error) {
	var i interview.Interview
	var location sql.NullString
	var feedback []byte
	err := row.Scan(&i.ID, &i.CandidateID, &i.InterviewerID, &i.VacancyID, &i.Type, &i.ScheduledTime, &i.DurationMinutes, &location, &feedback, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	i.Location = location.String
	i.ScheduledTime = i.ScheduledTime.UTC()
	if len(feedback) > 0 {
		var fb interview.Feedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return nil, err
		}
		i.Feedback = &fb
	}
	return &i, nil
}

func (r *InterviewRepository) Create(ctx context.Context, i interview.Interview) (*interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO interviews (candidate_id, interviewer_id, vacancy_id, interview_type, scheduled_time, duration_minutes, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		i.CandidateID, i.InterviewerID, i.VacancyID, i.Type, i.ScheduledTime, i.DurationMinutes, nullString(i.Location), i.Status, i.CreatedAt, i.UpdatedAt).Scan(&i.ID)
	if err != nil {
		return nil, dbError("failed to create interview", err)
	}
	return &i, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id int64) (*interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	i, err := scanInterview(r.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "interview not found", err)
		}
		return nil, dbError("failed to load interview", err)
	}
	return i, nil
}

func (r *InterviewRepository) List(ctx context.Context, filter interview.Filter) ([]interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	query := `SELECT ` + interviewColumns + ` FROM interviews`
	var clauses []string
	var args []any
	addClause := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.Status != "" {
		addClause("status = $%d", filter.Status)
	}
	if filter.VacancyID > 0 {
		addClause("vacancy_id = $%d", filter.VacancyID)
	}
	if filter.CandidateID > 0 {
		addClause("candidate_id = $%d", filter.CandidateID)
	}
	if filter.InterviewerID > 0 {
		addClause("interviewer_id = $%d", filter.InterviewerID)
	}
	if !filter.From.IsZero() {
		addClause("scheduled_time >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		addClause("scheduled_time <= $%d", filter.To)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY scheduled_time`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to list interviews", err)
	}
	defer rows.Close()
	var items []interview.Interview
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, dbError("failed to scan interview", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (r *InterviewRepository) UpdateStatus(ctx context.Context, id int64, expected, next interview.Status) (*interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to update interview status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *InterviewRepository) SubmitFeedback(ctx context.Context, id int64, feedback interview.Feedback, expected, next interview.Status) (*interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	encoded, err := json.Marshal(feedback)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode feedback", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET feedback = $1, status = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		encoded, next, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to submit interview feedback", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *InterviewRepository) Reschedule(ctx context.Context, id int64, newTime time.Time, newDuration int, expected interview.Status) (*interview.Interview, error) {
	ctx, cancel := opCtx(ctx, r.timeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET scheduled_time = $1, duration_minutes = $2, status = $3, updated_at = $4
		WHERE id = $5 AND status = $6`,
		newTime, newDuration, interview.StatusScheduled, time.Now().UTC(), id, expected)
	if err != nil {
		return nil, dbError("failed to reschedule interview", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, r.casMiss(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *InterviewRepository) casMiss(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); common.Is(err, common.CodeNotFound) {
		return err
	}
	return common.NewError(common.CodeConflict, "interview changed concurrently", nil)
}
