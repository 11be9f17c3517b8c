package interview

import (
	"context"
	"time"
)

type Filter struct {
	Status        Status
	VacancyID     int64
	CandidateID   int64
	InterviewerID int64
	From          time.Time
	To            time.Time
}

type Repository interface {
	Create(ctx context.Context, i Interview) (*Interview, error)
	GetByID(ctx context.Context, id int64) (*Interview, error)
	List(ctx context.Context, filter Filter) ([]Interview, error)
	UpdateStatus(ctx context.Context, id int64, expected, next Status) (*Interview, error)
	// SubmitFeedback stores feedback and advances the status in one statement.
	SubmitFeedback(ctx context.Context, id int64, feedback Feedback, expected, next Status) (*Interview, error)
	Reschedule(ctx context.Context, id int64, newTime time.Time, newDuration int, expected Status) (*Interview, error)
}
