package handlers

import (
	"net/http"

	"moneymap/src/logger"
	"moneymap/src/middleware"
	"moneymap/src/models"

	"github.com/go-chi/chi/v5"
)

func GetBudgets(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		budgets, err := store.ListBudgets(r.Context(), userID)
		if err != nil {
			writeStoreError(w, r, err, "failed to list budgets", "Budget not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, budgets)
	}
}

func CreateBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var b models.Budget
		if !decodeJSON(w, r, &b) {
			return
		}
		b.UserID = userID
		b.Normalize()
		if err := b.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid budget", "Budget not found")
			return
		}

		created, err := store.CreateBudget(r.Context(), &b)
		if err != nil {
			writeStoreError(w, r, err, "failed to create budget", "Budget not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("budget_id", created.ID).Str("category", created.Category).Msg("created budget")
		middleware.WriteJSON(w, http.StatusCreated, created)
	}
}

func UpdateBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var b models.Budget
		if !decodeJSON(w, r, &b) {
			return
		}
		b.ID = chi.URLParam(r, "id")
		b.UserID = userID
		b.Normalize()
		if err := b.Validate(); err != nil {
			writeStoreError(w, r, err, "invalid budget", "Budget not found")
			return
		}

		updated, err := store.UpdateBudget(r.Context(), &b)
		if err != nil {
			writeStoreError(w, r, err, "failed to update budget", "Budget not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("budget_id", updated.ID).Msg("updated budget")
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := store.DeleteBudget(r.Context(), userID, id); err != nil {
			writeStoreError(w, r, err, "failed to delete budget", "Budget not found")
			return
		}
		log := logger.FromContext(r.Context())
		log.Info().Str("budget_id", id).Msg("deleted budget")
		middleware.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Budget deleted"})
	}
}
