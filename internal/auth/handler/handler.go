package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"legado/internal/auth/service"
	"legado/internal/transport/http/shared"
	dErrors "legado/pkg/domain-errors"
	"legado/pkg/requestcontext"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "legado_session"

// Service defines the auth operations consumed by the HTTP layer.
type Service interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, tokenString string)
	CheckAuth(ctx context.Context, tokenString string) service.AuthState
}

// Handler handles the login, logout, and auth-check endpoints.
type Handler struct {
	auth         Service
	logger       *slog.Logger
	sessionTTL   time.Duration
	secureCookie bool
}

// New creates a new auth Handler. secureCookie should be true whenever the
// service terminates TLS.
func New(auth Service, logger *slog.Logger, sessionTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{auth: auth, logger: logger, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)
	r.Get("/api/check-auth", h.handleCheckAuth)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// checkAuthResponse always carries both fields so the unauthenticated body
// is {"authenticated":false,"user":null}.
type checkAuthResponse struct {
	Authenticated bool `json:"authenticated"`
	User          any  `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := validateLoginRequest(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeIncorrectUsername) || dErrors.Is(err, dErrors.CodeIncorrectPassword) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "login failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "login failed"))
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, h.sessionTTL))
	shared.WriteJSON(w, http.StatusOK, result.User)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.auth.Logout(ctx, cookie.Value)
	}

	// Expire the cookie regardless of whether a session existed.
	http.SetCookie(w, h.sessionCookie("", -time.Hour))
	shared.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		shared.WriteJSON(w, http.StatusUnauthorized, checkAuthResponse{})
		return
	}

	state := h.auth.CheckAuth(ctx, cookie.Value)
	if !state.Authenticated {
		shared.WriteJSON(w, http.StatusUnauthorized, checkAuthResponse{})
		return
	}

	shared.WriteJSON(w, http.StatusOK, checkAuthResponse{Authenticated: true, User: state.User})
}

func (h *Handler) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func validateLoginRequest(req loginRequest) error {
	if !govalidator.StringLength(req.Username, "1", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	if !govalidator.StringLength(req.Password, "1", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}
