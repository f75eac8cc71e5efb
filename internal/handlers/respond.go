package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"communityBack/internal/errors"
	"communityBack/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(t errors.ErrorType) int {
	switch t {
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrTypeForbidden:
		return http.StatusForbidden
	case errors.ErrTypeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError answers with the status of err's domain type. Internal
// failures are logged with their stack and their details withheld from the
// client. A cancelled request gets no answer: the client is gone.
func writeError(w http.ResponseWriter, logger logging.Logger, err error) {
	if stderrors.Is(err, context.Canceled) {
		return
	}

	status := statusFor(errors.TypeOf(err))
	msg := err.Error()

	de, isDomain := errors.AsDomain(err)
	if isDomain {
		msg = de.Message
	}
	if status == http.StatusInternalServerError {
		if isDomain {
			logger.Errorf("%v\n%s", err, de.StackTrace())
		} else {
			logger.Errorf("%v", err)
		}
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
