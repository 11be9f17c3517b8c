package candidate

import "context"

// Filter narrows candidate listings. Zero values mean "no constraint".
type Filter struct {
	VacancyID     int64
	Skills        []string
	MinExperience int
	Status        Status
}

type Repository interface {
	Create(ctx context.Context, c Candidate) (*Candidate, error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	ListByVacancy(ctx context.Context, vacancyID int64) ([]Candidate, error)
	ListByFilter(ctx context.Context, filter Filter) ([]Candidate, error)
	UpdateStatus(ctx context.Context, id int64, expected, next Status) (*Candidate, error)
}
