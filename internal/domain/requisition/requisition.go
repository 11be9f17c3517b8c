package requisition

import (
	"strings"
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Requisition is an approved intent to hire for a position. It is the
// prerequisite for opening a vacancy.
type Requisition struct {
	ID             int64     `json:"id"`
	PositionName   string    `json:"position_name"`
	Functions      []string  `json:"functions"`
	SalaryCategory string    `json:"salary_category"`
	Profile        string    `json:"profile"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r Requisition) Validate() error {
	fields := map[string]string{}
	name := strings.TrimSpace(r.PositionName)
	if name == "" {
		fields["position_name"] = "position name is required"
	} else if len(name) > 100 {
		fields["position_name"] = "position name must be at most 100 characters"
	}
	if len(r.Functions) == 0 {
		fields["functions"] = "at least one function is required"
	}
	if strings.TrimSpace(r.SalaryCategory) == "" {
		fields["salary_category"] = "salary category is required"
	}
	if len(strings.TrimSpace(r.Profile)) < 10 {
		fields["profile"] = "profile must be at least 10 characters"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid requisition", fields)
	}
	return nil
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a requisition may move between the two
// statuses. PENDING is the only non-terminal state.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	default:
		return false
	}
}
