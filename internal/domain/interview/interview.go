package interview

import (
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

type Type string

const (
	TypeTechnical   Type = "TECHNICAL"
	TypeHR          Type = "HR"
	TypeCulturalFit Type = "CULTURAL_FIT"
	TypeFinal       Type = "FINAL"
)

const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 180
)

type Feedback struct {
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	TechnicalScore     *float64 `json:"technical_score,omitempty"`
	CommunicationScore *float64 `json:"communication_score,omitempty"`
	CulturalFitScore   *float64 `json:"cultural_fit_score,omitempty"`
	Recommendation     string   `json:"recommendation,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

func (f Feedback) Validate() error {
	fields := map[string]string{}
	for name, score := range map[string]*float64{
		"technical_score":     f.TechnicalScore,
		"communication_score": f.CommunicationScore,
		"cultural_fit_score":  f.CulturalFitScore,
	} {
		if score != nil && (*score < 0 || *score > 100) {
			fields[name] = "score must be between 0 and 100"
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid interview feedback", fields)
	}
	return nil
}

type Interview struct {
	ID              int64     `json:"id"`
	CandidateID     int64     `json:"candidate_id"`
	InterviewerID   int64     `json:"interviewer_id"`
	VacancyID       int64     `json:"vacancy_id"`
	Type            Type      `json:"interview_type"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location,omitempty"`
	Feedback        *Feedback `json:"feedback,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (i Interview) Validate() error {
	fields := map[string]string{}
	if i.CandidateID <= 0 {
		fields["candidate_id"] = "candidate id is required"
	}
	if i.InterviewerID <= 0 {
		fields["interviewer_id"] = "interviewer id is required"
	}
	if i.VacancyID <= 0 {
		fields["vacancy_id"] = "vacancy id is required"
	}
	if !KnownType(i.Type) {
		fields["interview_type"] = "interview type must be TECHNICAL, HR, CULTURAL_FIT, or FINAL"
	}
	if i.ScheduledTime.IsZero() {
		fields["scheduled_time"] = "scheduled time is required"
	}
	if i.DurationMinutes < MinDurationMinutes || i.DurationMinutes > MaxDurationMinutes {
		fields["duration_minutes"] = "duration must be between 30 and 180 minutes"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid interview", fields)
	}
	return nil
}

func KnownType(t Type) bool {
	switch t {
	case TypeTechnical, TypeHR, TypeCulturalFit, TypeFinal:
		return true
	default:
		return false
	}
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

func CanTransition(from, to Status) bool {
	switch from {
	case StatusScheduled:
		return to == StatusInProgress || to == StatusCancelled || to == StatusNoShow
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled || to == StatusNoShow
	default:
		return false
	}
}
