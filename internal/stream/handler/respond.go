package handler

import (
	"encoding/json"
	"net/http"

	dErrors "paystream/pkg/domain-errors"
)

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeValidation:        http.StatusBadRequest,
	dErrors.CodeBadRequest:        http.StatusBadRequest,
	dErrors.CodeNotFound:          http.StatusNotFound,
	dErrors.CodeInvalidStream:     http.StatusUnprocessableEntity,
	dErrors.CodeMalformedResponse: http.StatusBadGateway,
	dErrors.CodeUnavailable:       http.StatusServiceUnavailable,
	dErrors.CodeInternal:          http.StatusInternalServerError,
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps coded domain errors to HTTP statuses with a JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error:   string(code),
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
