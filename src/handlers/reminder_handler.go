package handlers

import (
	"net/http"

	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"

	"github.com/go-chi/chi/v5"
)

func GetReminders(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		reminders, err := store.ListReminders(r.Context(), userID)
		if err != nil {
			writeStoreError(w, r, err, "failed to list reminders", "Reminder not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, reminders)
	}
}

func CreateReminder(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var rem models.Reminder
		if !decodeJSON(w, r, &rem) {
			return
		}
		rem.UserID = userID
		rem.Normalize()
		if err := rem.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid reminder", "Reminder not found")
			return
		}

		created, err := store.CreateReminder(r.Context(), &rem)
		if err != nil {
			writeStoreError(w, r, err, "failed to create reminder", "Reminder not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("reminder_id", created.ID).Msg("created reminder")
		middleware.WriteJSON(w, http.StatusCreated, created)
	}
}

// UpdateReminder replaces the caller's reminder with the request body.
func UpdateReminder(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var rem models.Reminder
		if !decodeJSON(w, r, &rem) {
			return
		}
		rem.ID = chi.URLParam(r, "id")
		rem.UserID = userID
		rem.Normalize()
		if err := rem.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid reminder", "Reminder not found")
			return
		}

		updated, err := store.UpdateReminder(r.Context(), &rem)
		if err != nil {
			writeStoreError(w, r, err, "failed to update reminder", "Reminder not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("reminder_id", updated.ID).Msg("updated reminder")
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteReminder(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := store.DeleteReminder(r.Context(), userID, id); err != nil {
			writeStoreError(w, r, err, "failed to delete reminder", "Reminder not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("reminder_id", id).Msg("deleted reminder")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Reminder deleted"})
	}
}
