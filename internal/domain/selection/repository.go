package selection

import "context"

type Repository interface {
	Create(ctx context.Context, s Selection) (*Selection, error)
	GetByID(ctx context.Context, id int64) (*Selection, error)
	ListByVacancy(ctx context.Context, vacancyID int64) ([]Selection, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]Selection, error)
	UpdateReport(ctx context.Context, id int64, report Report, expected, next Status) (*Selection, error)
	UpdateDecision(ctx context.Context, id int64, decision Decision, reason string, expected, next Status) (*Selection, error)
}
