package evaluation

import (
	"strings"
	"time"

	"talentflow/internal/common"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

type TestType string

const (
	TestPsychometric TestType = "PSYCHOMETRIC"
	TestTechnical    TestType = "TECHNICAL"
	TestLanguage     TestType = "LANGUAGE"
	TestPersonality  TestType = "PERSONALITY"
)

type Test struct {
	Name             string   `json:"name"`
	Type             TestType `json:"type"`
	DurationMinutes  int      `json:"duration_minutes"`
	MinScoreRequired float64  `json:"min_score_required"`
}

type Score struct {
	TestName   string    `json:"test_name"`
	Score      float64   `json:"score"`
	Comments   string    `json:"comments,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Evaluation is the set of tests assigned to a candidate and their recorded
// results. Scores are keyed by test name; one entry per test.
type Evaluation struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	VacancyID   int64      `json:"vacancy_id"`
	Tests       []Test     `json:"tests"`
	Scores      []Score    `json:"scores"`
	Status      Status     `json:"status"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e Evaluation) Validate() error {
	fields := map[string]string{}
	if e.CandidateID <= 0 {
		fields["candidate_id"] = "candidate id is required"
	}
	if e.VacancyID <= 0 {
		fields["vacancy_id"] = "vacancy id is required"
	}
	if len(e.Tests) == 0 {
		fields["tests"] = "at least one test is required"
	}
	seen := make(map[string]struct{}, len(e.Tests))
	for _, test := range e.Tests {
		if strings.TrimSpace(test.Name) == "" {
			fields["tests"] = "test name is required"
			break
		}
		if !KnownTestType(test.Type) {
			fields["tests"] = "test type must be PSYCHOMETRIC, TECHNICAL, LANGUAGE, or PERSONALITY"
			break
		}
		if test.MinScoreRequired < 0 || test.MinScoreRequired > 100 {
			fields["tests"] = "min score required must be between 0 and 100"
			break
		}
		if _, dup := seen[test.Name]; dup {
			fields["tests"] = "test names must be unique"
			break
		}
		seen[test.Name] = struct{}{}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid evaluation", fields)
	}
	return nil
}

func (e Evaluation) TestByName(name string) (Test, bool) {
	for _, test := range e.Tests {
		if test.Name == name {
			return test, true
		}
	}
	return Test{}, false
}

func (e Evaluation) ScoreFor(testName string) (float64, bool) {
	for _, score := range e.Scores {
		if score.TestName == testName {
			return score.Score, true
		}
	}
	return 0, false
}

// IsComplete reports whether every assigned test has a recorded score.
func (e Evaluation) IsComplete() bool {
	for _, test := range e.Tests {
		if _, ok := e.ScoreFor(test.Name); !ok {
			return false
		}
	}
	return true
}

// HasPassed reports whether every recorded score meets its test's minimum.
// Only meaningful once the evaluation is complete.
func (e Evaluation) HasPassed() bool {
	if !e.IsComplete() {
		return false
	}
	for _, test := range e.Tests {
		score, _ := e.ScoreFor(test.Name)
		if score < test.MinScoreRequired {
			return false
		}
	}
	return true
}

func KnownTestType(t TestType) bool {
	switch t {
	case TestPsychometric, TestTechnical, TestLanguage, TestPersonality:
		return true
	default:
		return false
	}
}

func KnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition covers the single-test case where the first recorded result
// completes the evaluation, so PENDING may settle directly.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCompleted || to == StatusFailed
	case StatusInProgress:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
