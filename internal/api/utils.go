package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "garage/internal/errors"
	"garage/internal/estimator"
	"garage/internal/service"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func decodeBody(r *http.Request, v any) *apperrors.HTTPError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrBadRequest("Invalid request body")
	}
	return nil
}

// toHTTPError maps estimator and delivery failures onto status codes.
func toHTTPError(err error) *apperrors.HTTPError {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, estimator.ErrVINLength),
		errors.Is(err, estimator.ErrIncompleteDecode),
		errors.Is(err, estimator.ErrDecodedYear),
		errors.Is(err, estimator.ErrInvalidYear),
		errors.Is(err, estimator.ErrNoServices):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, estimator.ErrDecodeFailed):
		code = http.StatusBadGateway
	case errors.Is(err, estimator.ErrStaleDecode),
		errors.Is(err, estimator.ErrNoEstimate):
		code = http.StatusConflict
	case errors.Is(err, estimator.ErrUnknownField):
		code = http.StatusNotFound
	case errors.Is(err, estimator.ErrUnknownMake),
		errors.Is(err, estimator.ErrUnknownService):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrSendDisabled):
		code = http.StatusServiceUnavailable
	}
	return apperrors.Wrap(code, err)
}
