package api

import (
	"net/http"

	"moneymap/src/auth"
	"moneymap/src/handlers"
	"moneymap/src/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Options struct {
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(store handlers.Store, tokens *auth.TokenManager, opts Options, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(store))
		r.Post("/auth/login", handlers.Login(store, tokens))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(tokens)).Group(func(r chi.Router) {
			// Account
			r.Put("/auth/change-password", handlers.ChangePassword(store))
			r.Delete("/auth/account", handlers.DeleteAccount(store))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(store))
			r.Post("/transactions", handlers.CreateTransaction(store))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(store))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(store))

			// Budgets
			r.Get("/budgets", handlers.GetBudgets(store))
			r.Post("/budgets", handlers.CreateBudget(store))
			r.Put("/budgets/{id}", handlers.UpdateBudget(store))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(store))

			// Reminders
			r.Get("/reminders", handlers.GetReminders(store))
			r.Post("/reminders", handlers.CreateReminder(store))
			r.Put("/reminders/{id}", handlers.UpdateReminder(store))
			r.Delete("/reminders/{id}", handlers.DeleteReminder(store))

			r.Delete("/reset", handlers.ResetUserData(store))
		})
	})

	return r
}
