package app

import (
	"context"
	"fmt"
	"time"

	"talentflow/internal/common"
	"talentflow/internal/domain/candidate"
	"talentflow/internal/domain/evaluation"
	"talentflow/internal/domain/event"
	"talentflow/internal/events"
)

type EvaluationService struct {
	repo       evaluation.Repository
	candidates candidate.Repository
	events     *events.Emitter
}

func NewEvaluationService(repo evaluation.Repository, candidates candidate.Repository, events *events.Emitter) *EvaluationService {
	return &EvaluationService{repo: repo, candidates: candidates, events: events}
}

// Assign creates a pending evaluation with the given test list for an
// existing candidate.
func (s *EvaluationService) Assign(ctx context.Context, candidateID, vacancyID int64, tests []evaluation.Test) (*evaluation.Evaluation, error) {
	e := evaluation.Evaluation{
		CandidateID: candidateID,
		VacancyID:   vacancyID,
		Tests:       tests,
		Status:      evaluation.StatusPending,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, fmt.Sprintf("candidate %d not found", candidateID), err)
		}
		return nil, common.NewError(common.CodePrecondition, fmt.Sprintf("candidate %d could not be verified", candidateID), err)
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "evaluation.assigned", event.Payload{
		"evaluation_id": created.ID,
		"candidate_id":  created.CandidateID,
		"vacancy_id":    created.VacancyID,
		"tests":         len(created.Tests),
		"assigned_at":   created.AssignedAt,
	})
	return created, nil
}

// SubmitResult records one test score and recomputes the evaluation status:
// COMPLETED once every assigned test has a score and all pass their minimum,
// FAILED when complete with at least one score below its minimum, otherwise
// IN_PROGRESS. Re-submitting a test overwrites its previous score.
func (s *EvaluationService) SubmitResult(ctx context.Context, evaluationID int64, testName string, score float64, comments string) (*evaluation.Evaluation, error) {
	if score < 0 || score > 100 {
		return nil, common.NewValidationError("invalid test score", map[string]string{"score": "score must be between 0 and 100"})
	}
	current, err := s.repo.GetByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if current.Status != evaluation.StatusPending && current.Status != evaluation.StatusInProgress {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("evaluation %d no longer accepts results in status %s", evaluationID, current.Status), nil)
	}
	if _, ok := current.TestByName(testName); !ok {
		return nil, common.NewValidationError("unknown test", map[string]string{"test_name": fmt.Sprintf("test %q is not assigned to this evaluation", testName)})
	}

	entry := evaluation.Score{TestName: testName, Score: score, Comments: comments, RecordedAt: time.Now().UTC()}
	scores := make([]evaluation.Score, 0, len(current.Scores)+1)
	replaced := false
	for _, existing := range current.Scores {
		if existing.TestName == testName {
			scores = append(scores, entry)
			replaced = true
			continue
		}
		scores = append(scores, existing)
	}
	if !replaced {
		scores = append(scores, entry)
	}

	projected := *current
	projected.Scores = scores
	next := evaluation.StatusInProgress
	var completedAt *time.Time
	if projected.IsComplete() {
		if projected.HasPassed() {
			next = evaluation.StatusCompleted
		} else {
			next = evaluation.StatusFailed
		}
		completedAt = &entry.RecordedAt
	}
	if next != current.Status && !evaluation.CanTransition(current.Status, next) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("evaluation %d cannot move from %s to %s", evaluationID, current.Status, next), nil)
	}

	updated, err := s.repo.RecordScore(ctx, evaluationID, scores, current.Status, next, current.UpdatedAt, completedAt)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "test.completed", event.Payload{
		"evaluation_id": updated.ID,
		"candidate_id":  updated.CandidateID,
		"test_name":     testName,
		"score":         score,
		"status":        updated.Status,
	})
	return updated, nil
}

func (s *EvaluationService) Get(ctx context.Context, id int64) (*evaluation.Evaluation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EvaluationService) ListByCandidate(ctx context.Context, candidateID int64) ([]evaluation.Evaluation, error) {
	return s.repo.ListByCandidate(ctx, candidateID)
}

func (s *EvaluationService) ListByVacancy(ctx context.Context, vacancyID int64) ([]evaluation.Evaluation, error) {
	return s.repo.ListByVacancy(ctx, vacancyID)
}
