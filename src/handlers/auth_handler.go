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

func Register(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.Credentials
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = util.NormalizeEmail(req.Email)

		if !util.ValidateEmail(req.Email) {
			log.Warn().Str("email", req.Email).Msg("email validation failed during registration")
			middleware.WriteError(w, http.StatusBadRequest, "invalid email format")
			return
		}
		if !util.ValidatePassword(req.Password) {
			log.Warn().Str("email", req.Email).Msg("password validation failed during registration")
			middleware.WriteError(w, http.StatusBadRequest, util.PasswordRule)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("failed to hash password")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := users.CreateUser(r.Context(), req.Email, hash)
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				log.Warn().Str("email", req.Email).Msg("registration failed, user already exists")
				middleware.WriteError(w, http.StatusBadRequest, "User already exists")
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("failed to create user")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info().Str("user_id", user.ID).Msg("user registered")
		middleware.WriteJSON(w, http.StatusCreated, models.MessageResponse{Message: "User registered"})
	}
}

func Login(users UserStore, tokens *auth.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.Credentials
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = util.NormalizeEmail(req.Email)

		user, err := users.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Warn().Str("email", req.Email).Msg("login for unknown email")
				middleware.WriteError(w, http.StatusNotFound, "User not registered")
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("failed to look up user")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("failed to check password")
			middleware.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			log.Warn().Str("user_id", user.ID).Str("remote_addr", r.RemoteAddr).Msg("invalid password attempt")
			middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
			middleware.WriteError(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		log.Info().Str("user_id", user.ID).Msg("successful login")
		middleware.WriteJSON(w, http.StatusOK, models.TokenResponse{Token: token})
	}
}
