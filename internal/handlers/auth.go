package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
	"github.com/AnshRaj112/devconnect-backend/internal/repository"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
	"github.com/AnshRaj112/devconnect-backend/pkg/utils"
)

type AuthHandler struct {
	users  repository.UserRepository
	tokens *services.TokenService
}

func NewAuthHandler(users repository.UserRepository, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new user and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Name == "" {
		msgs = append(msgs, "Name is required")
	}
	if !validEmail(req.Email) {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	if len(msgs) > 0 {
		respondValidationErrors(w, msgs)
		return
	}

	// read-then-insert; the unique email index backstops the race
	if _, err := h.users.FindByEmail(r.Context(), req.Email); err == nil {
		respondValidationErrors(w, []string{"User already exists"})
		return
	} else if !errors.Is(err, apperror.ErrNotFound) {
		serverError(w, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(w, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Avatar:   utils.GravatarURL(req.Email),
		Date:     time.Now(),
	}
	if err := h.users.Insert(r.Context(), user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			respondValidationErrors(w, []string{"User already exists"})
			return
		}
		serverError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Login authenticates a user and returns a session token. Unknown email and
// wrong password produce the same response so callers cannot probe which
// emails are registered.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if !validEmail(req.Email) {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		respondValidationErrors(w, msgs)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondValidationErrors(w, []string{"Invalid Credentials"})
			return
		}
		serverError(w, err)
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		respondValidationErrors(w, []string{"Invalid Credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// GetAuthedUser returns the authenticated user without the password hash.
func (h *AuthHandler) GetAuthedUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
