// Package handler contains the HTTP boundary: request parsing, shape
// validation, and status mapping. No business logic lives here — handlers
// call services and translate their domain errors via writeError.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/restro-server/internal/auth"
	"github.com/sakif/restro-server/internal/model"
	"github.com/sakif/restro-server/internal/service"
)

// AuthHandler serves registration, login, logout, and the token check
// endpoint.
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

// registerRequest is the explicit schema for POST /api/createuser.
// Decoding with DisallowUnknownFields rejects bodies with stray fields
// instead of silently dropping them.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the explicit schema for POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse bundles the bearer token with the public user summary.
type loginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// decodeStrict decodes a JSON body into dst, rejecting unknown fields.
func decodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/createuser
// Body: {"username": "...", "email": "...", "password": "..."}
// 201 on success; 400 on validation failure; 409 if the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeStrict(r, &req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully.",
		"user":    user.Public(),
	})
}

// HandleLogin authenticates and issues a bearer token.
//
// HTTP: POST /api/login
// Body: {"email": "...", "password": "..."}
// 200 with {token, user} on success; 401 on any credential failure.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful.",
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

// HandleLogout acknowledges a logout.
//
// HTTP: POST /api/logout
//
// The server is stateless — there is no session to destroy. The token
// remains valid until its one-hour expiry; the client discards it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful. Please delete your token on the client-side.",
	})
}

// HandleProtected returns the authenticated user.
//
// HTTP: GET /api/protected
// Auth: required (RequireAuth middleware puts the identity in context)
//
// The frontend uses this to verify a stored token is still valid and to
// display who is logged in. We return a fresh record from the database
// rather than echoing the token claims.
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Should never happen behind RequireAuth, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.authSvc.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("protected: user lookup failed",
			slog.String("userID", id.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "You are authorized.",
		"user":    user.Public(),
	})
}
