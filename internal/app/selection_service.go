package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"talentflow/internal/common"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/selection"
	"talentflow/internal/domain/vacancy"
	"talentflow/internal/events"
)

type SelectionService struct {
	repo      selection.Repository
	vacancies *VacancyService
	events    *events.Emitter
	logger    *logrus.Logger
}

func NewSelectionService(repo selection.Repository, vacancies *VacancyService, events *events.Emitter, logger *logrus.Logger) *SelectionService {
	return &SelectionService{repo: repo, vacancies: vacancies, events: events, logger: logger}
}

func (s *SelectionService) Create(ctx context.Context, vacancyID, candidateID int64) (*selection.Selection, error) {
	sel := selection.Selection{
		VacancyID:   vacancyID,
		CandidateID: candidateID,
		Status:      selection.StatusPending,
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, sel)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "selection.created", event.Payload{
		"selection_id": created.ID,
		"vacancy_id":   created.VacancyID,
		"candidate_id": created.CandidateID,
		"status":       created.Status,
	})
	return created, nil
}

// GenerateReport attaches the technical and HR evaluation to the selection.
// A pending selection advances to IN_REVIEW; an in-review one keeps its state
// with the report replaced.
func (s *SelectionService) GenerateReport(ctx context.Context, id int64, report selection.Report) (*selection.Selection, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanGenerateReport() {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("selection %d no longer accepts a report in status %s", id, current.Status), nil)
	}
	updated, err := s.repo.UpdateReport(ctx, id, report, current.Status, selection.StatusInReview)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "selection.report", event.Payload{
		"selection_id": updated.ID,
		"vacancy_id":   updated.VacancyID,
		"candidate_id": updated.CandidateID,
		"status":       updated.Status,
	})
	return updated, nil
}

// Decide records the final hiring decision. A HIRE additionally closes the
// selection's vacancy with reason FILLED as a best-effort side effect: the
// decision write is already committed, so a failing close is logged for
// reissue rather than rolled back.
func (s *SelectionService) Decide(ctx context.Context, id int64, decision selection.Decision, reason string) (*selection.Selection, error) {
	next, ok := selection.StatusForDecision(decision)
	if !ok {
		return nil, common.NewValidationError("invalid decision", map[string]string{"decision": "decision must be HIRE, NO_HIRE, or ON_HOLD"})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanDecide() {
		if current.Report == nil {
			return nil, common.NewError(common.CodePrecondition,
				fmt.Sprintf("selection %d has no report on file", id), nil)
		}
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("selection %d cannot be decided in status %s", id, current.Status), nil)
	}
	updated, err := s.repo.UpdateDecision(ctx, id, decision, reason, current.Status, next)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "selection.decision", event.Payload{
		"selection_id": updated.ID,
		"vacancy_id":   updated.VacancyID,
		"candidate_id": updated.CandidateID,
		"decision":     updated.Decision,
		"status":       updated.Status,
	})

	if decision == selection.DecisionHire {
		if _, err := s.vacancies.Close(ctx, updated.VacancyID, vacancy.ReasonFilled); err != nil {
			s.logger.WithFields(logrus.Fields{
				"selection_id": updated.ID,
				"vacancy_id":   updated.VacancyID,
				"error":        err.Error(),
			}).Error("vacancy close after hire failed; reissue the close for this vacancy")
		}
	}
	return updated, nil
}

func (s *SelectionService) Get(ctx context.Context, id int64) (*selection.Selection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SelectionService) ListByVacancy(ctx context.Context, vacancyID int64) ([]selection.Selection, error) {
	return s.repo.ListByVacancy(ctx, vacancyID)
}

func (s *SelectionService) ListByCandidate(ctx context.Context, candidateID int64) ([]selection.Selection, error) {
	return s.repo.ListByCandidate(ctx, candidateID)
}
