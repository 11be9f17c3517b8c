package selection

import (
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusInReview Status = "IN_REVIEW"
	StatusSelected Status = "SELECTED"
	StatusRejected Status = "REJECTED"
)

type Decision string

const (
	DecisionHire   Decision = "HIRE"
	DecisionNoHire Decision = "NO_HIRE"
	DecisionOnHold Decision = "ON_HOLD"
)

// decisionStatus is the authoritative decision-to-status mapping. ON_HOLD
// keeps the selection in review.
var decisionStatus = map[Decision]Status{
	DecisionHire:   StatusSelected,
	DecisionNoHire: StatusRejected,
	DecisionOnHold: StatusInReview,
}

func StatusForDecision(d Decision) (Status, bool) {
	status, ok := decisionStatus[d]
	return status, ok
}

type EvaluationSummary struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

type Report struct {
	Technical EvaluationSummary `json:"technical_evaluation"`
	HR        EvaluationSummary `json:"hr_evaluation"`
	Notes     string            `json:"notes,omitempty"`
}

func (r Report) Validate() error {
	fields := map[string]string{}
	if r.Technical.Score < 0 || r.Technical.Score > 100 {
		fields["technical_evaluation.score"] = "score must be between 0 and 100"
	}
	if r.HR.Score < 0 || r.HR.Score > 100 {
		fields["hr_evaluation.score"] = "score must be between 0 and 100"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid selection report", fields)
	}
	return nil
}

// Selection ties a candidate to a vacancy outcome.
type Selection struct {
	ID          int64     `json:"id"`
	VacancyID   int64     `json:"vacancy_id"`
	CandidateID int64     `json:"candidate_id"`
	Report      *Report   `json:"report,omitempty"`
	Decision    Decision  `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s Selection) Validate() error {
	fields := map[string]string{}
	if s.VacancyID <= 0 {
		fields["vacancy_id"] = "vacancy id is required"
	}
	if s.CandidateID <= 0 {
		fields["candidate_id"] = "candidate id is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid selection", fields)
	}
	return nil
}

// CanGenerateReport reports whether a final report may still be written.
func (s Selection) CanGenerateReport() bool {
	return s.Status == StatusPending || s.Status == StatusInReview
}

// CanDecide requires an in-review selection with a report on file.
func (s Selection) CanDecide() bool {
	return s.Status == StatusInReview && s.Report != nil
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusInReview, StatusSelected, StatusRejected:
		return true
	default:
		return false
	}
}

func KnownDecision(d Decision) bool {
	_, ok := decisionStatus[d]
	return ok
}

// CanTransition permits IN_REVIEW to stay put so an ON_HOLD decision can be
// recorded without moving state.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInReview
	case StatusInReview:
		return to == StatusSelected || to == StatusRejected || to == StatusInReview
	default:
		return false
	}
}
