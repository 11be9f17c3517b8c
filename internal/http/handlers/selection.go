package handlers

import (
	"net/http"

	"talentflow/internal/app"
	"talentflow/internal/common"
	"talentflow/internal/domain/selection"
	"talentflow/internal/http/response"
)

type SelectionHandler struct {
	selections *app.SelectionService
}

func NewSelectionHandler(selections *app.SelectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

type selectionCreateRequest struct {
	VacancyID   int64 `json:"vacancy_id" validate:"required,gt=0"`
	CandidateID int64 `json:"candidate_id" validate:"required,gt=0"`
}

type selectionEvaluationRequest struct {
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
	Feedback string  `json:"feedback"`
}

type selectionReportRequest struct {
	Technical selectionEvaluationRequest `json:"technical_evaluation" validate:"required"`
	HR        selectionEvaluationRequest `json:"hr_evaluation" validate:"required"`
	Notes     string                     `json:"notes"`
}

type selectionDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=HIRE NO_HIRE ON_HOLD"`
	Reason   string `json:"reason"`
}

func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req selectionCreateRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.selections.Create(r.Context(), req.VacancyID, req.CandidateID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *SelectionHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req selectionReportRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.selections.GenerateReport(r.Context(), id, selection.Report{
		Technical: selection.EvaluationSummary{Score: req.Technical.Score, Feedback: req.Technical.Feedback},
		HR:        selection.EvaluationSummary{Score: req.HR.Score, Feedback: req.HR.Feedback},
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *SelectionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req selectionDecisionRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.selections.Decide(r.Context(), id, selection.Decision(req.Decision), req.Reason)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.selections.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// List requires one of vacancy_id or candidate_id.
func (h *SelectionHandler) List(w http.ResponseWriter, r *http.Request) {
	if vacancyID := queryInt64(r, "vacancy_id"); vacancyID > 0 {
		items, err := h.selections.ListByVacancy(r.Context(), vacancyID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	if candidateID := queryInt64(r, "candidate_id"); candidateID > 0 {
		items, err := h.selections.ListByCandidate(r.Context(), candidateID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	response.Error(w, common.NewError(common.CodeValidation, "vacancy_id or candidate_id query parameter is required", nil))
}
