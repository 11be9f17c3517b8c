package app

import (
	"context"
	"fmt"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/requisition"
	"talentflow/internal/domain/vacancy"
	"talentflow/internal/events"
)

type VacancyService struct {
	repo         vacancy.Repository
	requisitions requisition.Repository
	events       *events.Emitter
}

func NewVacancyService(repo vacancy.Repository, requisitions requisition.Repository, events *events.Emitter) *VacancyService {
	return &VacancyService{repo: repo, requisitions: requisitions, events: events}
}

// Publish creates a published vacancy for an approved requisition. The
// requisition read happens before any write; a missing or unapproved
// requisition blocks the intent entirely.
func (s *VacancyService) Publish(ctx context.Context, requisitionID int64, platforms []string) (*vacancy.Vacancy, error) {
	req, err := s.requisitions.GetByID(ctx, requisitionID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("requisition %d not found", requisitionID), err)
		}
		return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("requisition %d could not be verified", requisitionID), err)
	}
	if req.Status != requisition.StatusApproved {
		return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("requisition %d is not approved", requisitionID), nil)
	}

	now := time.Now().UTC()
	v := vacancy.Vacancy{
		RequisitionID:   requisitionID,
		Platforms:       platforms,
		Status:          vacancy.StatusPublished,
		PublicationDate: &now,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, v)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, common.NewError(common.CodeConflict, fmt.Sprintf("requisition %d already has a vacancy", requisitionID), err)
		}
		return nil, err
	}
	s.events.Emit(ctx, "vacancy.published", event.Payload{
		"vacancy_id":       created.ID,
		"requisition_id":   created.RequisitionID,
		"platforms":        created.Platforms,
		"status":           created.Status,
		"publication_date": created.PublicationDate,
	})
	return created, nil
}

// Close transitions a published vacancy to closed with the given reason.
func (s *VacancyService) Close(ctx context.Context, id int64, reason string) (*vacancy.Vacancy, error) {
	if reason == "" {
		reason = vacancy.ReasonCancelled
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !vacancy.CanTransition(current.Status, vacancy.StatusClosed) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("vacancy %d cannot be closed from %s", id, current.Status), nil)
	}
	now := time.Now().UTC()
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, vacancy.StatusClosed, vacancy.StatusUpdate{
		ClosingDate: &now,
		CloseReason: reason,
	})
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "vacancy.closed", event.Payload{
		"vacancy_id":     updated.ID,
		"requisition_id": updated.RequisitionID,
		"status":         updated.Status,
		"closing_date":   updated.ClosingDate,
		"reason":         reason,
	})
	return updated, nil
}

func (s *VacancyService) Get(ctx context.Context, id int64) (*vacancy.Vacancy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VacancyService) List(ctx context.Context, status vacancy.Status) ([]vacancy.Vacancy, error) {
	if status != "" && !vacancy.KnownStatus(status) {
		return nil, common.NewValidationError("invalid vacancy status", map[string]string{"status": "status must be DRAFT, PUBLISHED, or CLOSED"})
	}
	return s.repo.ListByStatus(ctx, status)
}
