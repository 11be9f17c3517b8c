package app

import (
	"context"
	"fmt"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/interview"
	"talentflow/internal/events"
)

type InterviewService struct {
	repo   interview.Repository
	events *events.Emitter
}

func NewInterviewService(repo interview.Repository, events *events.Emitter) *InterviewService {
	return &InterviewService{repo: repo, events: events}
}

// Schedule creates an interview in SCHEDULED state. Scheduled times without a
// zone are treated as UTC; everything is stored normalized to UTC.
func (s *InterviewService) Schedule(ctx context.Context, i interview.Interview) (*interview.Interview, error) {
	i.Status = interview.StatusScheduled
	i.ScheduledTime = i.ScheduledTime.UTC()
	if err := i.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, i)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "interview.scheduled", event.Payload{
		"interview_id":     created.ID,
		"candidate_id":     created.CandidateID,
		"interviewer_id":   created.InterviewerID,
		"vacancy_id":       created.VacancyID,
		"interview_type":   created.Type,
		"scheduled_time":   created.ScheduledTime,
		"duration_minutes": created.DurationMinutes,
	})
	return created, nil
}

func (s *InterviewService) Start(ctx context.Context, id int64) (*interview.Interview, error) {
	updated, err := s.transition(ctx, id, interview.StatusInProgress)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "interview.started", event.Payload{
		"interview_id": updated.ID,
		"candidate_id": updated.CandidateID,
		"status":       updated.Status,
	})
	return updated, nil
}

// SubmitFeedback records feedback for an in-progress interview and completes
// it. Feedback against any other state is rejected.
func (s *InterviewService) SubmitFeedback(ctx context.Context, id int64, feedback interview.Feedback) (*interview.Interview, error) {
	if err := feedback.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != interview.StatusInProgress {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("interview %d must be in progress to accept feedback, is %s", id, current.Status), nil)
	}
	updated, err := s.repo.SubmitFeedback(ctx, id, feedback, current.Status, interview.StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "interview.feedback", event.Payload{
		"interview_id":   updated.ID,
		"candidate_id":   updated.CandidateID,
		"recommendation": feedback.Recommendation,
		"status":         updated.Status,
	})
	return updated, nil
}

// Cancel moves an interview to CANCELLED or NO_SHOW.
func (s *InterviewService) Cancel(ctx context.Context, id int64, next interview.Status) (*interview.Interview, error) {
	if next != interview.StatusCancelled && next != interview.StatusNoShow {
		return nil, common.NewValidationError("invalid cancellation status", map[string]string{"status": "status must be CANCELLED or NO_SHOW"})
	}
	updated, err := s.transition(ctx, id, next)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "interview.cancelled", event.Payload{
		"interview_id": updated.ID,
		"candidate_id": updated.CandidateID,
		"status":       updated.Status,
	})
	return updated, nil
}

// Reschedule moves a scheduled or cancelled interview to a new slot, back in
// SCHEDULED state.
func (s *InterviewService) Reschedule(ctx context.Context, id int64, newTime time.Time, newDuration int) (*interview.Interview, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != interview.StatusScheduled && current.Status != interview.StatusCancelled {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("interview %d cannot be rescheduled from %s", id, current.Status), nil)
	}
	if newDuration == 0 {
		newDuration = current.DurationMinutes
	}
	if newDuration < interview.MinDurationMinutes || newDuration > interview.MaxDurationMinutes {
		return nil, common.NewValidationError("invalid interview duration", map[string]string{"duration_minutes": "duration must be between 30 and 180 minutes"})
	}
	updated, err := s.repo.Reschedule(ctx, id, newTime.UTC(), newDuration, current.Status)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "interview.rescheduled", event.Payload{
		"interview_id":     updated.ID,
		"candidate_id":     updated.CandidateID,
		"scheduled_time":   updated.ScheduledTime,
		"duration_minutes": updated.DurationMinutes,
	})
	return updated, nil
}

func (s *InterviewService) transition(ctx context.Context, id int64, next interview.Status) (*interview.Interview, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !interview.CanTransition(current.Status, next) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("interview %d cannot move from %s to %s", id, current.Status, next), nil)
	}
	return s.repo.UpdateStatus(ctx, id, current.Status, next)
}

func (s *InterviewService) Get(ctx context.Context, id int64) (*interview.Interview, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InterviewService) List(ctx context.Context, filter interview.Filter) ([]interview.Interview, error) {
	if filter.Status != "" && !interview.KnownStatus(filter.Status) {
		return nil, common.NewValidationError("invalid interview status", map[string]string{"status": "unknown status"})
	}
	return s.repo.List(ctx, filter)
}
