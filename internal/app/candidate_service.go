package app

import (
	"context"
	"fmt"

	"talentflow/internal/common"
	"talentflow/internal/domain/candidate"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/vacancy"
	"talentflow/internal/events"
)

type CandidateService struct {
	repo      candidate.Repository
	vacancies vacancy.Repository
	events    *events.Emitter
}

func NewCandidateService(repo candidate.Repository, vacancies vacancy.Repository, events *events.Emitter) *CandidateService {
	return &CandidateService{repo: repo, vacancies: vacancies, events: events}
}

// Register creates a pending candidate against a published vacancy.
func (s *CandidateService) Register(ctx context.Context, c candidate.Candidate) (*candidate.Candidate, error) {
	c.Status = candidate.StatusPending
	if err := c.Validate(); err != nil {
		return nil, err
	}
	vac, err := s.vacancies.GetByID(ctx, c.VacancyID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("vacancy %d not found", c.VacancyID), err)
		}
		return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("vacancy %d could not be verified", c.VacancyID), err)
	}
	if vac.Status != vacancy.StatusPublished {
		return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("vacancy %d is not published", c.VacancyID), nil)
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "candidate.registered", event.Payload{
		"candidate_id": created.ID,
		"vacancy_id":   created.VacancyID,
		"name":         created.Name,
		"status":       created.Status,
		"applied_at":   created.AppliedAt,
	})
	return created, nil
}

func (s *CandidateService) UpdateStatus(ctx context.Context, id int64, next candidate.Status) (*candidate.Candidate, error) {
	if !candidate.KnownStatus(next) {
		return nil, common.NewValidationError("invalid candidate status", map[string]string{"status": "status must be PENDING, REVIEWING, INTERVIEWED, ACCEPTED, or REJECTED"})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !candidate.CanTransition(current.Status, next) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("candidate %d cannot move from %s to %s", id, current.Status, next), nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "candidate.status", event.Payload{
		"candidate_id": updated.ID,
		"vacancy_id":   updated.VacancyID,
		"status":       updated.Status,
		"updated_at":   updated.UpdatedAt,
	})
	return updated, nil
}

// Filter lists candidates and refines the skill match in memory: the store
// filter is case-sensitive array containment, the domain rule is not.
func (s *CandidateService) Filter(ctx context.Context, filter candidate.Filter) ([]candidate.Candidate, error) {
	if filter.Status != "" && !candidate.KnownStatus(filter.Status) {
		return nil, common.NewValidationError("invalid candidate status", map[string]string{"status": "unknown status"})
	}
	// Skill containment is re-checked in memory, so drop it from the store
	// query to avoid excluding case-variant matches.
	storeFilter := filter
	storeFilter.Skills = nil
	items, err := s.repo.ListByFilter(ctx, storeFilter)
	if err != nil {
		return nil, err
	}
	if len(filter.Skills) == 0 && filter.MinExperience <= 0 {
		return items, nil
	}
	matched := make([]candidate.Candidate, 0, len(items))
	for _, c := range items {
		if c.MatchesRequirements(filter.Skills, filter.MinExperience) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *CandidateService) Get(ctx context.Context, id int64) (*candidate.Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CandidateService) ListByVacancy(ctx context.Context, vacancyID int64) ([]candidate.Candidate, error) {
	return s.repo.ListByVacancy(ctx, vacancyID)
}
