package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/roster/internal/models"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// TokenIssuer mints bearer tokens for authenticated users
type TokenIssuer interface {
	Generate(userID int64, email string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service UserService
	tokens  TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
	}
}

// Request/Response DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name   string `json:"name" validate:"required,min=1"`
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"secret" validate:"required,min=8"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"secret" validate:"required"`
}

// TokenResponse carries a freshly minted bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles user registration. A successful registration lands the
// caller in an authenticated session: the response carries a bearer token
// bound to the new identity.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if _, err := h.service.GetUserByEmail(req.Email); err == nil {
		pkghttp.WriteBadRequest(w, "Email already registered")
		return
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  "user",
	}

	createdUser, err := h.service.CreateUser(user, req.Secret)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteBadRequest(w, "Email already registered")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	token, err := h.tokens.Generate(createdUser.ID, createdUser.Email)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(TokenResponse{Token: token})
}

// Login handles user login. Unknown emails and wrong secrets produce the
// identical response to avoid user enumeration.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, ok, err := h.service.VerifyCredentials(req.Email, req.Secret)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if !ok {
		pkghttp.WriteError(w, http.StatusBadRequest, "invalid_credentials", models.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{Token: token})
}
