package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"talentflow/internal/common"
)

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type ErrorCollector interface {
	IncErrors()
}

var collector ErrorCollector

func SetErrorCollector(c ErrorCollector) {
	collector = c
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = &common.Error{Code: common.CodeInternal, Message: "internal error"}
	}
	status := statusFor(appErr.Code)
	if status >= http.StatusInternalServerError && collector != nil {
		collector.IncErrors()
	}
	JSON(w, status, errorBody{Error: errorDetail{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	}})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusUnprocessableEntity
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodePrecondition, common.CodeInvalidTransition, common.CodeConflict:
		return http.StatusConflict
	case common.CodeTimeout:
		return http.StatusGatewayTimeout
	case common.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
