package handlers

import (
	"net/http"

	"talentflow/internal/app"
	"talentflow/internal/common"
	"talentflow/internal/domain/evaluation"
	"talentflow/internal/http/response"
)

type EvaluationHandler struct {
	evaluations *app.EvaluationService
}

func NewEvaluationHandler(evaluations *app.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

type evaluationTestRequest struct {
	Name             string  `json:"name" validate:"required"`
	Type             string  `json:"type" validate:"required,oneof=PSYCHOMETRIC TECHNICAL LANGUAGE PERSONALITY"`
	DurationMinutes  int     `json:"duration_minutes" validate:"gte=0"`
	MinScoreRequired float64 `json:"min_score_required" validate:"gte=0,lte=100"`
}

type evaluationAssignRequest struct {
	CandidateID int64                   `json:"candidate_id" validate:"required,gt=0"`
	VacancyID   int64                   `json:"vacancy_id" validate:"required,gt=0"`
	Tests       []evaluationTestRequest `json:"tests" validate:"required,min=1,dive"`
}

type evaluationResultRequest struct {
	TestName string  `json:"test_name" validate:"required"`
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
	Comments string  `json:"comments"`
}

func (h *EvaluationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req evaluationAssignRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	tests := make([]evaluation.Test, 0, len(req.Tests))
	for _, t := range req.Tests {
		tests = append(tests, evaluation.Test{
			Name:             t.Name,
			Type:             evaluation.TestType(t.Type),
			DurationMinutes:  t.DurationMinutes,
			MinScoreRequired: t.MinScoreRequired,
		})
	}
	created, err := h.evaluations.Assign(r.Context(), req.CandidateID, req.VacancyID, tests)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *EvaluationHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req evaluationResultRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.evaluations.SubmitResult(r.Context(), id, req.TestName, req.Score, req.Comments)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.evaluations.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// List requires one of candidate_id or vacancy_id.
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	if candidateID := queryInt64(r, "candidate_id"); candidateID > 0 {
		items, err := h.evaluations.ListByCandidate(r.Context(), candidateID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	if vacancyID := queryInt64(r, "vacancy_id"); vacancyID > 0 {
		items, err := h.evaluations.ListByVacancy(r.Context(), vacancyID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	response.Error(w, common.NewError(common.CodeValidation, "candidate_id or vacancy_id query parameter is required", nil))
}
