package vacancy

import (
	"context"
	"time"
)

// StatusUpdate carries the fields stamped alongside a status transition.
type StatusUpdate struct {
	PublicationDate *time.Time
	ClosingDate     *time.Time
	CloseReason     string
}

type Repository interface {
	Create(ctx context.Context, v Vacancy) (*Vacancy, error)
	GetByID(ctx context.Context, id int64) (*Vacancy, error)
	GetByRequisition(ctx context.Context, requisitionID int64) (*Vacancy, error)
	ListByStatus(ctx context.Context, status Status) ([]Vacancy, error)
	UpdateStatus(ctx context.Context, id int64, expected, next Status, update StatusUpdate) (*Vacancy, error)
}
