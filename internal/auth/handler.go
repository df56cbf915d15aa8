package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rahulm/restaurant-backend/internal/models"
	"github.com/rahulm/restaurant-backend/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, role string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the registration and login HTTP handlers.
type Handler struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	log      *zap.SugaredLogger
}

func NewHandler(users UserStore, secret []byte, tokenTTL time.Duration, log *zap.SugaredLogger) *Handler {
	return &Handler{users: users, secret: secret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new user with a hashed password.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" || req.Role == "" {
		http.Error(w, `{"message":"username, password, and role are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		h.log.Errorw("hashing password", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	if _, err := h.users.CreateUser(r.Context(), req.Username, hashed, req.Role); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			http.Error(w, `{"message":"Username already exists"}`, http.StatusBadRequest)
			return
		}
		h.log.Errorw("registering user", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"message":"User registered successfully"}`))
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords get the same response so neither field is revealed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Invalid username or password"}`, http.StatusUnauthorized)
			return
		}
		h.log.Errorw("looking up user", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		http.Error(w, `{"message":"Invalid username or password"}`, http.StatusUnauthorized)
		return
	}

	token, err := IssueToken(user.Username, user.Role, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Errorw("issuing token", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
