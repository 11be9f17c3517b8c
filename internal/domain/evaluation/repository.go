package evaluation

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Evaluation) (*Evaluation, error)
	GetByID(ctx context.Context, id int64) (*Evaluation, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]Evaluation, error)
	ListByVacancy(ctx context.Context, vacancyID int64) ([]Evaluation, error)
	// RecordScore persists the full score list and the resulting status in one
	// statement. The write is guarded by a compare-and-set on both the prior
	// status and the snapshot's updated_at, so a submission racing another
	// test's result surfaces as a conflict instead of overwriting its score.
	RecordScore(ctx context.Context, id int64, scores []Score, expected, next Status, readAt time.Time, completedAt *time.Time) (*Evaluation, error)
}
