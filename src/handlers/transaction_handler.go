package handlers

import (
	"net/http"

	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"

	"github.com/go-chi/chi/v5"
)

func GetTransactions(store TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		txs, err := store.ListTransactions(r.Context(), userID)
		if err != nil {
			writeStoreError(w, r, err, "failed to list transactions", "Transaction not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, txs)
	}
}

func CreateTransaction(store TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var t models.Transaction
		if !decodeJSON(w, r, &t) {
			return
		}
		t.UserID = userID
		t.Normalize(today())
		if err := t.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid transaction", "Transaction not found")
			return
		}

		created, err := store.CreateTransaction(r.Context(), &t)
		if err != nil {
			writeStoreError(w, r, err, "failed to create transaction", "Transaction not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("transaction_id", created.ID).Msg("created transaction")
		middleware.WriteJSON(w, http.StatusCreated, created)
	}
}

// UpdateTransaction replaces the caller's transaction with the request body.
func UpdateTransaction(store TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var t models.Transaction
		if !decodeJSON(w, r, &t) {
			return
		}
		t.ID = chi.URLParam(r, "id")
		t.UserID = userID
		t.Normalize(today())
		if err := t.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid transaction", "Transaction not found")
			return
		}

		updated, err := store.UpdateTransaction(r.Context(), &t)
		if err != nil {
			writeStoreError(w, r, err, "failed to update transaction", "Transaction not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("transaction_id", updated.ID).Msg("updated transaction")
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(store TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := store.DeleteTransaction(r.Context(), userID, id); err != nil {
			writeStoreError(w, r, err, "failed to delete transaction", "Transaction not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("transaction_id", id).Msg("deleted transaction")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Transaction deleted"})
	}
}
