package requisition

import "context"

type Repository interface {
	Create(ctx context.Context, r Requisition) (*Requisition, error)
	GetByID(ctx context.Context, id int64) (*Requisition, error)
	// ListByStatus returns all requisitions when status is empty.
	ListByStatus(ctx context.Context, status Status) ([]Requisition, error)
	// UpdateStatus performs a compare-and-set on status and fails with a
	// conflict error when the stored status no longer matches expected.
	UpdateStatus(ctx context.Context, id int64, expected, next Status) (*Requisition, error)
}
