package candidate

import (
	"strings"
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusReviewing   Status = "REVIEWING"
	StatusInterviewed Status = "INTERVIEWED"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
)

type Candidate struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ResumeURL       string    `json:"resume_url"`
	VacancyID       int64     `json:"vacancy_id"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	Notes           string    `json:"notes,omitempty"`
	Status          Status    `json:"status"`
	AppliedAt       time.Time `json:"applied_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c Candidate) Validate() error {
	fields := map[string]string{}
	if len(strings.TrimSpace(c.Name)) < 2 {
		fields["name"] = "name must be at least 2 characters"
	}
	if !strings.Contains(c.Email, "@") {
		fields["email"] = "email is invalid"
	}
	if len(strings.TrimSpace(c.ResumeURL)) < 5 {
		fields["resume_url"] = "resume url must be at least 5 characters"
	}
	if c.VacancyID <= 0 {
		fields["vacancy_id"] = "vacancy id is required"
	}
	if c.ExperienceYears < 0 {
		fields["experience_years"] = "experience years must not be negative"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid candidate", fields)
	}
	return nil
}

// MatchesRequirements reports whether the candidate satisfies a skill and
// experience filter. Skill comparison is case-insensitive.
func (c Candidate) MatchesRequirements(requiredSkills []string, minExperience int) bool {
	if minExperience > 0 && c.ExperienceYears < minExperience {
		return false
	}
	if len(requiredSkills) == 0 {
		return true
	}
	owned := make(map[string]struct{}, len(c.Skills))
	for _, skill := range c.Skills {
		owned[strings.ToLower(skill)] = struct{}{}
	}
	for _, skill := range requiredSkills {
		if _, ok := owned[strings.ToLower(skill)]; !ok {
			return false
		}
	}
	return true
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusReviewing, StatusInterviewed, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusReviewing || to == StatusRejected
	case StatusReviewing:
		return to == StatusInterviewed || to == StatusRejected
	case StatusInterviewed:
		return to == StatusAccepted || to == StatusRejected
	default:
		return false
	}
}
