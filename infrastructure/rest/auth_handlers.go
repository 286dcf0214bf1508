// Package rest exposes the account endpoints: registration and login.
// Only the relay admits connections; these handlers just issue credentials.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "chat-relay/errors"
	"chat-relay/services"
)

type AuthHandler struct {
	log         *slog.Logger
	authService services.IAuthService
}

func NewAuthHandler(log *slog.Logger, authService services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register handles user registration by validating input, hashing the
// password and issuing a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		h.log.Warn("Registration failed", "username", req.Username, "error", err)
		writeJSON(w, apperrors.MapToHTTPStatus(err), errorResponse{Error: apperrors.PublicMessage(err)})
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		h.log.Warn("Login failed", "username", req.Username, "error", err)
		writeJSON(w, apperrors.MapToHTTPStatus(err), errorResponse{Error: apperrors.PublicMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
