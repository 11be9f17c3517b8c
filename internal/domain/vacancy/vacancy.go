package vacancy

import (
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusClosed    Status = "CLOSED"
)

type Platform string

const (
	PlatformLinkedIn       Platform = "LINKEDIN"
	PlatformIndeed         Platform = "INDEED"
	PlatformGlassdoor      Platform = "GLASSDOOR"
	PlatformCompanyWebsite Platform = "COMPANY_WEBSITE"
)

const (
	ReasonFilled    = "FILLED"
	ReasonCancelled = "CANCELLED"
)

type Vacancy struct {
	ID              int64      `json:"id"`
	RequisitionID   int64      `json:"requisition_id"`
	Platforms       []string   `json:"platforms"`
	Status          Status     `json:"status"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ClosingDate     *time.Time `json:"closing_date,omitempty"`
	CloseReason     string     `json:"close_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (v Vacancy) Validate() error {
	fields := map[string]string{}
	if v.RequisitionID <= 0 {
		fields["requisition_id"] = "requisition id is required"
	}
	if len(v.Platforms) == 0 {
		fields["platforms"] = "at least one platform is required"
	}
	for _, platform := range v.Platforms {
		if !KnownPlatform(Platform(platform)) {
			fields["platforms"] = "platform must be LINKEDIN, INDEED, GLASSDOOR, or COMPANY_WEBSITE"
			break
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid vacancy", fields)
	}
	return nil
}

func KnownPlatform(platform Platform) bool {
	switch platform {
	case PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor, PlatformCompanyWebsite:
		return true
	default:
		return false
	}
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	default:
		return false
	}
}

func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusPublished
	case StatusPublished:
		return to == StatusClosed
	default:
		return false
	}
}
