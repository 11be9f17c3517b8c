package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"talentflow/internal/common"
	"talentflow/internal/domain/candidate"
	"talentflow/internal/domain/evaluation"
	"talentflow/internal/domain/event"
	"talentflow/internal/domain/interview"
	"talentflow/internal/domain/requisition"
	"talentflow/internal/domain/selection"
	"talentflow/internal/domain/vacancy"
	"talentflow/internal/events"
)

type capturePublisher struct {
	mu       sync.Mutex
	failAll  bool
	topics   []string
	payloads []event.Payload
}

func (p *capturePublisher) Publish(ctx context.Context, topic string, payload event.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return common.NewError(common.CodeUnavailable, "broker down", nil)
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func (p *capturePublisher) last() (string, event.Payload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.topics) == 0 {
		return "", nil
	}
	return p.topics[len(p.topics)-1], p.payloads[len(p.payloads)-1]
}

func newTestEmitter(publisher event.Publisher) *events.Emitter {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return events.NewEmitter(publisher, logger, 1, time.Second)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type fakeRequisitionRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*requisition.Requisition
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{items: make(map[int64]*requisition.Requisition)}
}

func (r *fakeRequisitionRepo) Create(ctx context.Context, req requisition.Requisition) (*requisition.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	stored := req
	r.items[req.ID] = &stored
	return &req, nil
}

func (r *fakeRequisitionRepo) GetByID(ctx context.Context, id int64) (*requisition.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "requisition not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeRequisitionRepo) ListByStatus(ctx context.Context, status requisition.Status) ([]requisition.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []requisition.Requisition
	for _, item := range r.items {
		if status == "" || item.Status == status {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeRequisitionRepo) UpdateStatus(ctx context.Context, id int64, expected, next requisition.Status) (*requisition.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "requisition not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "requisition status changed concurrently", nil)
	}
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeVacancyRepo struct {
	mu            sync.Mutex
	nextID        int64
	items         map[int64]*vacancy.Vacancy
	byRequisition map[int64]int64
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{
		items:         make(map[int64]*vacancy.Vacancy),
		byRequisition: make(map[int64]int64),
	}
}

func (r *fakeVacancyRepo) Create(ctx context.Context, v vacancy.Vacancy) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRequisition[v.RequisitionID]; exists {
		return nil, common.NewError(common.CodeConflict, "duplicate requisition_id", nil)
	}
	r.nextID++
	v.ID = r.nextID
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	stored := v
	r.items[v.ID] = &stored
	r.byRequisition[v.RequisitionID] = v.ID
	return &v, nil
}

func (r *fakeVacancyRepo) GetByID(ctx context.Context, id int64) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeVacancyRepo) GetByRequisition(ctx context.Context, requisitionID int64) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byRequisition[requisitionID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	copied := *r.items[id]
	return &copied, nil
}

func (r *fakeVacancyRepo) ListByStatus(ctx context.Context, status vacancy.Status) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []vacancy.Vacancy
	for _, item := range r.items {
		if status == "" || item.Status == status {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeVacancyRepo) UpdateStatus(ctx context.Context, id int64, expected, next vacancy.Status, update vacancy.StatusUpdate) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "vacancy status changed concurrently", nil)
	}
	item.Status = next
	if update.PublicationDate != nil {
		item.PublicationDate = update.PublicationDate
	}
	if update.ClosingDate != nil {
		item.ClosingDate = update.ClosingDate
	}
	if update.CloseReason != "" {
		item.CloseReason = update.CloseReason
	}
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeCandidateRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*candidate.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{items: make(map[int64]*candidate.Candidate)}
}

func (r *fakeCandidateRepo) Create(ctx context.Context, c candidate.Candidate) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	now := time.Now().UTC()
	c.AppliedAt = now
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := c
	r.items[c.ID] = &stored
	return &c, nil
}

func (r *fakeCandidateRepo) GetByID(ctx context.Context, id int64) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "candidate not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCandidateRepo) ListByVacancy(ctx context.Context, vacancyID int64) ([]candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []candidate.Candidate
	for _, item := range r.items {
		if item.VacancyID == vacancyID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeCandidateRepo) ListByFilter(ctx context.Context, filter candidate.Filter) ([]candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []candidate.Candidate
	for _, item := range r.items {
		if filter.VacancyID > 0 && item.VacancyID != filter.VacancyID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.MinExperience > 0 && item.ExperienceYears < filter.MinExperience {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func (r *fakeCandidateRepo) UpdateStatus(ctx context.Context, id int64, expected, next candidate.Status) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "candidate not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "candidate status changed concurrently", nil)
	}
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeEvaluationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*evaluation.Evaluation

	// afterGet, when set, runs once after the next GetByID returns. Tests use
	// it to interleave a competing write between a read and its RecordScore.
	afterGet func()
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{items: make(map[int64]*evaluation.Evaluation)}
}

func (r *fakeEvaluationRepo) Create(ctx context.Context, e evaluation.Evaluation) (*evaluation.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	now := time.Now().UTC()
	e.AssignedAt = now
	e.CreatedAt = now
	e.UpdatedAt = now
	stored := e
	r.items[e.ID] = &stored
	return &e, nil
}

func (r *fakeEvaluationRepo) GetByID(ctx context.Context, id int64) (*evaluation.Evaluation, error) {
	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "evaluation not found", nil)
	}
	copied := *item
	copied.Scores = append([]evaluation.Score(nil), item.Scores...)
	r.mu.Unlock()
	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook()
	}
	return &copied, nil
}

func (r *fakeEvaluationRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]evaluation.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []evaluation.Evaluation
	for _, item := range r.items {
		if item.CandidateID == candidateID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeEvaluationRepo) ListByVacancy(ctx context.Context, vacancyID int64) ([]evaluation.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []evaluation.Evaluation
	for _, item := range r.items {
		if item.VacancyID == vacancyID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeEvaluationRepo) RecordScore(ctx context.Context, id int64, scores []evaluation.Score, expected, next evaluation.Status, readAt time.Time, completedAt *time.Time) (*evaluation.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "evaluation not found", nil)
	}
	if item.Status != expected || !item.UpdatedAt.Equal(readAt) {
		return nil, common.NewError(common.CodeConflict, "evaluation changed concurrently", nil)
	}
	item.Scores = append([]evaluation.Score(nil), scores...)
	item.Status = next
	item.CompletedAt = completedAt
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeInterviewRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*interview.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{items: make(map[int64]*interview.Interview)}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, i interview.Interview) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	i.ID = r.nextID
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	stored := i
	r.items[i.ID] = &stored
	return &i, nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id int64) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInterviewRepo) List(ctx context.Context, filter interview.Filter) ([]interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []interview.Interview
	for _, item := range r.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.VacancyID > 0 && item.VacancyID != filter.VacancyID {
			continue
		}
		if filter.CandidateID > 0 && item.CandidateID != filter.CandidateID {
			continue
		}
		if filter.InterviewerID > 0 && item.InterviewerID != filter.InterviewerID {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func (r *fakeInterviewRepo) UpdateStatus(ctx context.Context, id int64, expected, next interview.Status) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "interview status changed concurrently", nil)
	}
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

func (r *fakeInterviewRepo) SubmitFeedback(ctx context.Context, id int64, feedback interview.Feedback, expected, next interview.Status) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "interview status changed concurrently", nil)
	}
	stored := feedback
	item.Feedback = &stored
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

func (r *fakeInterviewRepo) Reschedule(ctx context.Context, id int64, newTime time.Time, newDuration int, expected interview.Status) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "interview status changed concurrently", nil)
	}
	item.ScheduledTime = newTime
	item.DurationMinutes = newDuration
	item.Status = interview.StatusScheduled
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeSelectionRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*selection.Selection
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{items: make(map[int64]*selection.Selection)}
}

func (r *fakeSelectionRepo) Create(ctx context.Context, s selection.Selection) (*selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	stored := s
	r.items[s.ID] = &stored
	return &s, nil
}

func (r *fakeSelectionRepo) GetByID(ctx context.Context, id int64) (*selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "selection not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeSelectionRepo) ListByVacancy(ctx context.Context, vacancyID int64) ([]selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []selection.Selection
	for _, item := range r.items {
		if item.VacancyID == vacancyID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeSelectionRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []selection.Selection
	for _, item := range r.items {
		if item.CandidateID == candidateID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeSelectionRepo) UpdateReport(ctx context.Context, id int64, report selection.Report, expected, next selection.Status) (*selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "selection not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "selection status changed concurrently", nil)
	}
	stored := report
	item.Report = &stored
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

func (r *fakeSelectionRepo) UpdateDecision(ctx context.Context, id int64, decision selection.Decision, reason string, expected, next selection.Status) (*selection.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "selection not found", nil)
	}
	if item.Status != expected {
		return nil, common.NewError(common.CodeConflict, "selection status changed concurrently", nil)
	}
	item.Decision = decision
	item.Reason = reason
	item.Status = next
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}
