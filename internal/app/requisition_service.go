package app

import (
	"context"
	"fmt"

	"talentflow/internal/common"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/requisition"
	"talentflow/internal/events"
)

type RequisitionService struct {
	repo   requisition.Repository
	events *events.Emitter
}

func NewRequisitionService(repo requisition.Repository, events *events.Emitter) *RequisitionService {
	return &RequisitionService{repo: repo, events: events}
}

func (s *RequisitionService) Create(ctx context.Context, req requisition.Requisition) (*requisition.Requisition, error) {
	req.Status = requisition.StatusPending
	if err := req.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "requisition.created", event.Payload{
		"requisition_id": created.ID,
		"position_name":  created.PositionName,
		"status":         created.Status,
		"created_at":     created.CreatedAt,
	})
	return created, nil
}

// Review approves or rejects a pending requisition.
func (s *RequisitionService) Review(ctx context.Context, id int64, approve bool) (*requisition.Requisition, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := requisition.StatusApproved
	if !approve {
		next = requisition.StatusRejected
	}
	if !requisition.CanTransition(current.Status, next) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("requisition %d cannot move from %s to %s", id, current.Status, next), nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "requisition.reviewed", event.Payload{
		"requisition_id": updated.ID,
		"status":         updated.Status,
		"reviewed_at":    updated.UpdatedAt,
	})
	return updated, nil
}

func (s *RequisitionService) Get(ctx context.Context, id int64) (*requisition.Requisition, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RequisitionService) List(ctx context.Context, status requisition.Status) ([]requisition.Requisition, error) {
	if status != "" && !requisition.KnownStatus(status) {
		return nil, common.NewValidationError("invalid requisition status", map[string]string{"status": "status must be PENDING, APPROVED, or REJECTED"})
	}
	return s.repo.ListByStatus(ctx, status)
}
