package handlers

import (
	"net/http"

	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"
)

// ResetUserData deletes every transaction, budget and reminder of the
// caller. The account itself stays.
func ResetUserData(store ResetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		if err := store.DeleteAllUserData(r.Context(), userID); err != nil {
			writeStoreError(w, r, err, "failed to reset user data", "User not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Msg("reset all user data")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "All user data deleted"})
	}
}
