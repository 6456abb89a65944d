package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to decode request body")
		middleware.WriteError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// requireUser returns the authenticated caller or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No token provided")
	}
	return userID, ok
}

// statusFor maps a store or validation error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeStoreError answers with notFound for missing records, the validation
// reason for bad input, and a logged 500 otherwise.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action, notFound string) {
	log := logger.FromContext(r.Context())
	switch status := statusFor(err); status {
	case http.StatusNotFound:
		log.Warn().Err(err).Msg(action)
		middleware.WriteError(w, status, notFound)
	case http.StatusInternalServerError:
		log.Error().Err(err).Msg(action)
		middleware.WriteError(w, status, "internal error")
	default:
		log.Warn().Err(err).Msg(action)
		middleware.WriteError(w, status, validationMessage(err))
	}
}

func validationMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}

func today() models.Date {
	return models.DateOf(time.Now().UTC())
}
