package handlers

import (
	"errors"
	"net/http"

	"moneymap/src/auth"
	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"
	"moneymap/src/util"
)

func ChangePassword(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req models.ChangePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, ok := currentUser(w, r, users, userID)
		if !ok {
			return
		}

		match, err := auth.CheckPassword(user.PasswordHash, req.OldPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to check password")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !match {
			log.Warn().Msg("invalid current password on password change")
			middleware.WriteError(w, http.StatusBadRequest, "Old password is incorrect")
			return
		}
		if !util.ValidatePassword(req.NewPassword) {
			middleware.WriteError(w, http.StatusBadRequest, util.PasswordRule)
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash new password")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := users.UpdateUserPassword(r.Context(), userID, hash); err != nil {
			writeStoreError(w, r, err, "failed to update password", "User not found")
			return
		}

		log.Info().Msg("password changed")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password changed successfully"})
	}
}

// DeleteAccount removes the caller's records and then the caller.
func DeleteAccount(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req models.DeleteAccountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, ok := currentUser(w, r, users, userID)
		if !ok {
			return
		}

		match, err := auth.CheckPassword(user.PasswordHash, req.Password)
		if err != nil {
			log.Error().Err(err).Msg("failed to check password")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !match {
			log.Warn().Msg("incorrect password on account deletion")
			middleware.WriteError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}

		if err := users.DeleteUser(r.Context(), userID); err != nil {
			writeStoreError(w, r, err, "failed to delete account", "User not found")
			return
		}

		log.Info().Msg("account deleted")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Account and all data deleted"})
	}
}

func currentUser(w http.ResponseWriter, r *http.Request, users UserStore, userID string) (*models.User, bool) {
	user, err := users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "User not found")
			return nil, false
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("failed to load user")
		middleware.WriteError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return user, true
}
