package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"talentflow/internal/common"
)

var validate = validator.New()

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.NewError(common.CodeValidation, "request body is required", nil)
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// decodeValid decodes the body and runs the struct's validate tags, turning
// tag failures into a field-keyed validation error.
func decodeValid(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag() + " validation"
			}
			return common.NewValidationError("invalid request body", fields)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath extracts a numeric path segment counted from the end:
// 1 is the last segment, 2 the one before it.
func idFromPath(r *http.Request, fromEnd int) (int64, error) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) < fromEnd {
		return 0, common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	raw := segments[len(segments)-fromEnd]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.CodeValidation, "invalid id in path", err)
	}
	return id, nil
}

func queryInt64(r *http.Request, name string) int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func queryInt(r *http.Request, name string) int {
	return int(queryInt64(r, name))
}
