package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"talentflow/internal/common"
)

func TestIDFromPath(t *testing.T) {
	request := httptest.NewRequest("POST", "/interviews/42/feedback", nil)
	id, err := idFromPath(request, 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}

	request = httptest.NewRequest("GET", "/candidates/7", nil)
	id, err = idFromPath(request, 1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if id != 7 {
		t.Fatalf("expected 7, got %d", id)
	}

	request = httptest.NewRequest("GET", "/candidates/abc", nil)
	if _, err := idFromPath(request, 1); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	request = httptest.NewRequest("GET", "/candidates/-3", nil)
	if _, err := idFromPath(request, 1); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for non-positive id, got %v", err)
	}
}

func TestDecodeValid(t *testing.T) {
	type payload struct {
		Name  string `json:"name" validate:"required,min=2"`
		Score int    `json:"score" validate:"gte=0,lte=100"`
	}

	request := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","score":50}`))
	var ok payload
	if err := decodeValid(request, &ok); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	request = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","score":150}`))
	var bad payload
	err := decodeValid(request, &bad)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	request = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	var malformed payload
	if err := decodeValid(request, &malformed); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for malformed JSON, got %v", err)
	}
}

func TestQueryInt64(t *testing.T) {
	request := httptest.NewRequest("GET", "/candidates?vacancy_id=12&min_experience=junk", nil)
	if got := queryInt64(request, "vacancy_id"); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := queryInt64(request, "min_experience"); got != 0 {
		t.Fatalf("expected 0 for malformed value, got %d", got)
	}
	if got := queryInt64(request, "missing"); got != 0 {
		t.Fatalf("expected 0 for missing value, got %d", got)
	}
}
