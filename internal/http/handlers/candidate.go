package handlers

import (
	"net/http"
	"strings"

	"talentflow/internal/app"
	"talentflow/internal/domain/candidate"
	"talentflow/internal/http/response"
)

type CandidateHandler struct {
	candidates *app.CandidateService
}

func NewCandidateHandler(candidates *app.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

type candidateRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Email           string   `json:"email" validate:"required,email"`
	ResumeURL       string   `json:"resume_url" validate:"required,min=5"`
	VacancyID       int64    `json:"vacancy_id" validate:"required,gt=0"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Notes           string   `json:"notes"`
}

type candidateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.candidates.Register(r.Context(), candidate.Candidate{
		Name:            req.Name,
		Email:           req.Email,
		ResumeURL:       req.ResumeURL,
		VacancyID:       req.VacancyID,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *CandidateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req candidateStatusRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.candidates.UpdateStatus(r.Context(), id, candidate.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.candidates.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// List filters candidates by vacancy, skills, minimum experience, and status.
// Skills arrive comma-separated.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := candidate.Filter{
		VacancyID:     queryInt64(r, "vacancy_id"),
		MinExperience: queryInt(r, "min_experience"),
		Status:        candidate.Status(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("skills"); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(skill); trimmed != "" {
				filter.Skills = append(filter.Skills, trimmed)
			}
		}
	}
	items, err := h.candidates.Filter(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
