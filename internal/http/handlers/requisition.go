package handlers

import (
	"net/http"
	"strings"

	"talentflow/internal/app"
	"talentflow/internal/domain/requisition"
	"talentflow/internal/http/response"
)

type RequisitionHandler struct {
	requisitions *app.RequisitionService
}

func NewRequisitionHandler(requisitions *app.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitions: requisitions}
}

type requisitionRequest struct {
	PositionName   string   `json:"position_name" validate:"required,max=100"`
	Functions      []string `json:"functions" validate:"required,min=1"`
	SalaryCategory string   `json:"salary_category" validate:"required"`
	Profile        string   `json:"profile" validate:"required,min=10"`
}

type requisitionReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
}

func (h *RequisitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req requisitionRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.requisitions.Create(r.Context(), requisition.Requisition{
		PositionName:   req.PositionName,
		Functions:      req.Functions,
		SalaryCategory: req.SalaryCategory,
		Profile:        req.Profile,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *RequisitionHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req requisitionReviewRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.requisitions.Review(r.Context(), id, strings.EqualFold(req.Decision, string(requisition.StatusApproved)))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *RequisitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.requisitions.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *RequisitionHandler) List(w http.ResponseWriter, r *http.Request) {
	status := requisition.Status(r.URL.Query().Get("status"))
	items, err := h.requisitions.List(r.Context(), status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
