package handlers

import (
	"net/http"

	"talentflow/internal/app"
	"talentflow/internal/domain/vacancy"
	"talentflow/internal/http/response"
)

type VacancyHandler struct {
	vacancies *app.VacancyService
}

func NewVacancyHandler(vacancies *app.VacancyService) *VacancyHandler {
	return &VacancyHandler{vacancies: vacancies}
}

type vacancyPublishRequest struct {
	RequisitionID int64    `json:"requisition_id" validate:"required,gt=0"`
	Platforms     []string `json:"platforms" validate:"required,min=1"`
}

type vacancyCloseRequest struct {
	Reason string `json:"reason" validate:"omitempty,oneof=FILLED CANCELLED"`
}

func (h *VacancyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req vacancyPublishRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.vacancies.Publish(r.Context(), req.RequisitionID, req.Platforms)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *VacancyHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req vacancyCloseRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.vacancies.Close(r.Context(), id, req.Reason)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *VacancyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.vacancies.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *VacancyHandler) List(w http.ResponseWriter, r *http.Request) {
	status := vacancy.Status(r.URL.Query().Get("status"))
	items, err := h.vacancies.List(r.Context(), status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
