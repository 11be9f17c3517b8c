package app

import (
	"context"
	"testing"

	"talentflow/internal/common"
	"talentflow/internal/domain/selection"
	"talentflow/internal/domain/vacancy"
)

func validReport() selection.Report {
	return selection.Report{
		Technical: selection.EvaluationSummary{Score: 88, Feedback: "strong systems background"},
		HR:        selection.EvaluationSummary{Score: 75, Feedback: "good culture fit"},
	}
}

type selectionFixture struct {
	service    *SelectionService
	vacancies  *fakeVacancyRepo
	selections *fakeSelectionRepo
	publisher  *capturePublisher
	vacancyID  int64
}

func newSelectionFixture(t *testing.T) *selectionFixture {
	t.Helper()
	requisitions := newFakeRequisitionRepo()
	vacancies := newFakeVacancyRepo()
	selections := newFakeSelectionRepo()
	publisher := &capturePublisher{}
	emitter := newTestEmitter(publisher)
	vacancyService := NewVacancyService(vacancies, requisitions, emitter)
	service := NewSelectionService(selections, vacancyService, emitter, quietLogger())

	v := publishedVacancy(t, vacancies, 1)
	return &selectionFixture{
		service:    service,
		vacancies:  vacancies,
		selections: selections,
		publisher:  publisher,
		vacancyID:  v.ID,
	}
}

func TestSelectionReportAdvancesToInReview(t *testing.T) {
	f := newSelectionFixture(t)

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created, got %v", err)
	}

	updated, err := f.service.GenerateReport(context.Background(), created.ID, validReport())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != selection.StatusInReview {
		t.Fatalf("expected status IN_REVIEW, got %s", updated.Status)
	}
	if updated.Report == nil {
		t.Fatal("expected report stored")
	}
}

func TestSelectionDecideRequiresReport(t *testing.T) {
	f := newSelectionFixture(t)

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created, got %v", err)
	}

	if _, err := f.service.Decide(context.Background(), created.ID, selection.DecisionHire, ""); !common.Is(err, common.CodePrecondition) {
		t.Fatalf("expected precondition error without report, got %v", err)
	}
	if _, err := f.service.Decide(context.Background(), created.ID, selection.Decision("MAYBE"), ""); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for unknown decision, got %v", err)
	}
}

func TestSelectionHireClosesVacancy(t *testing.T) {
	f := newSelectionFixture(t)

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created, got %v", err)
	}
	if _, err := f.service.GenerateReport(context.Background(), created.ID, validReport()); err != nil {
		t.Fatalf("expected report stored, got %v", err)
	}

	decided, err := f.service.Decide(context.Background(), created.ID, selection.DecisionHire, "top scorer")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if decided.Status != selection.StatusSelected {
		t.Fatalf("expected status SELECTED, got %s", decided.Status)
	}

	closed, err := f.vacancies.GetByID(context.Background(), f.vacancyID)
	if err != nil {
		t.Fatalf("expected vacancy loaded, got %v", err)
	}
	if closed.Status != vacancy.StatusClosed {
		t.Fatalf("expected vacancy CLOSED after hire, got %s", closed.Status)
	}
	if closed.CloseReason != vacancy.ReasonFilled {
		t.Fatalf("expected close reason FILLED, got %q", closed.CloseReason)
	}
}

func TestSelectionHireSurvivesVacancyCloseFailure(t *testing.T) {
	f := newSelectionFixture(t)

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created, got %v", err)
	}
	if _, err := f.service.GenerateReport(context.Background(), created.ID, validReport()); err != nil {
		t.Fatalf("expected report stored, got %v", err)
	}

	// Close the vacancy out from under the decision. The hire must still be
	// recorded even though the follow-up close fails.
	if _, err := f.vacancies.UpdateStatus(context.Background(), f.vacancyID, vacancy.StatusPublished, vacancy.StatusClosed, vacancy.StatusUpdate{CloseReason: vacancy.ReasonCancelled}); err != nil {
		t.Fatalf("expected vacancy closed, got %v", err)
	}

	decided, err := f.service.Decide(context.Background(), created.ID, selection.DecisionHire, "")
	if err != nil {
		t.Fatalf("expected hire recorded despite close failure, got %v", err)
	}
	if decided.Status != selection.StatusSelected {
		t.Fatalf("expected status SELECTED, got %s", decided.Status)
	}
}

func TestSelectionOnHoldStaysInReview(t *testing.T) {
	f := newSelectionFixture(t)

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created, got %v", err)
	}
	if _, err := f.service.GenerateReport(context.Background(), created.ID, validReport()); err != nil {
		t.Fatalf("expected report stored, got %v", err)
	}

	held, err := f.service.Decide(context.Background(), created.ID, selection.DecisionOnHold, "waiting on budget")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if held.Status != selection.StatusInReview {
		t.Fatalf("expected status IN_REVIEW, got %s", held.Status)
	}

	// Vacancy stays open on hold.
	open, err := f.vacancies.GetByID(context.Background(), f.vacancyID)
	if err != nil {
		t.Fatalf("expected vacancy loaded, got %v", err)
	}
	if open.Status != vacancy.StatusPublished {
		t.Fatalf("expected vacancy still PUBLISHED, got %s", open.Status)
	}

	// The report can be replaced and a final decision taken afterwards.
	if _, err := f.service.GenerateReport(context.Background(), created.ID, validReport()); err != nil {
		t.Fatalf("expected report replaced, got %v", err)
	}
	rejected, err := f.service.Decide(context.Background(), created.ID, selection.DecisionNoHire, "position scope changed")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if rejected.Status != selection.StatusRejected {
		t.Fatalf("expected status REJECTED, got %s", rejected.Status)
	}

	// REJECTED is terminal for the selection.
	if _, err := f.service.Decide(context.Background(), created.ID, selection.DecisionHire, ""); !common.Is(err, common.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestSelectionDecisionSurvivesEmitterFailure(t *testing.T) {
	f := newSelectionFixture(t)
	f.publisher.failAll = true

	created, err := f.service.Create(context.Background(), f.vacancyID, 1)
	if err != nil {
		t.Fatalf("expected selection created despite broken broker, got %v", err)
	}
	if _, err := f.service.GenerateReport(context.Background(), created.ID, validReport()); err != nil {
		t.Fatalf("expected report stored despite broken broker, got %v", err)
	}
	decided, err := f.service.Decide(context.Background(), created.ID, selection.DecisionHire, "")
	if err != nil {
		t.Fatalf("expected hire recorded despite broken broker, got %v", err)
	}
	if decided.Status != selection.StatusSelected {
		t.Fatalf("expected status SELECTED, got %s", decided.Status)
	}
}
