package handlers

import (
	"net/http"
	"time"

	"talentflow/internal/app"
	"talentflow/internal/domain/interview"
	"talentflow/internal/http/response"
)

type InterviewHandler struct {
	interviews *app.InterviewService
}

func NewInterviewHandler(interviews *app.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

type interviewScheduleRequest struct {
	CandidateID     int64     `json:"candidate_id" validate:"required,gt=0"`
	InterviewerID   int64     `json:"interviewer_id" validate:"required,gt=0"`
	VacancyID       int64     `json:"vacancy_id" validate:"required,gt=0"`
	Type            string    `json:"interview_type" validate:"required,oneof=TECHNICAL HR CULTURAL_FIT FINAL"`
	ScheduledTime   time.Time `json:"scheduled_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gte=30,lte=180"`
	Location        string    `json:"location"`
}

type interviewFeedbackRequest struct {
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	TechnicalScore     *float64 `json:"technical_score" validate:"omitempty,gte=0,lte=100"`
	CommunicationScore *float64 `json:"communication_score" validate:"omitempty,gte=0,lte=100"`
	CulturalFitScore   *float64 `json:"cultural_fit_score" validate:"omitempty,gte=0,lte=100"`
	Recommendation     string   `json:"recommendation"`
	Notes              string   `json:"notes"`
}

type interviewCancelRequest struct {
	Status string `json:"status" validate:"required,oneof=CANCELLED NO_SHOW"`
}

type interviewRescheduleRequest struct {
	ScheduledTime   time.Time `json:"scheduled_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,gte=30,lte=180"`
}

func (h *InterviewHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req interviewScheduleRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.interviews.Schedule(r.Context(), interview.Interview{
		CandidateID:     req.CandidateID,
		InterviewerID:   req.InterviewerID,
		VacancyID:       req.VacancyID,
		Type:            interview.Type(req.Type),
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.Start(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InterviewHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req interviewFeedbackRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.SubmitFeedback(r.Context(), id, interview.Feedback{
		Strengths:          req.Strengths,
		Weaknesses:         req.Weaknesses,
		TechnicalScore:     req.TechnicalScore,
		CommunicationScore: req.CommunicationScore,
		CulturalFitScore:   req.CulturalFitScore,
		Recommendation:     req.Recommendation,
		Notes:              req.Notes,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req interviewCancelRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.Cancel(r.Context(), id, interview.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InterviewHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req interviewRescheduleRequest
	if err := decodeValid(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.Reschedule(r.Context(), id, req.ScheduledTime, req.DurationMinutes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.interviews.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := interview.Filter{
		Status:        interview.Status(r.URL.Query().Get("status")),
		VacancyID:     queryInt64(r, "vacancy_id"),
		CandidateID:   queryInt64(r, "candidate_id"),
		InterviewerID: queryInt64(r, "interviewer_id"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = parsed
		}
	}
	items, err := h.interviews.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
