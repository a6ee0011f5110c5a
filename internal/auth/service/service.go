package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,SessionStore,TokenMinter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"legado/internal/auth/device"
	"legado/internal/auth/models"
	"legado/internal/platform/metrics"
	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
	audit "legado/pkg/platform/audit"
	"legado/pkg/platform/sentinel"
	"legado/pkg/requestcontext"
	"legado/pkg/secrets"
)

// UserStore is the user persistence contract consumed by the service.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore is the session persistence contract consumed by the service.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Touch(ctx context.Context, sessionID id.SessionID, now time.Time) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}

// TokenMinter signs session IDs into cookie values.
type TokenMinter interface {
	Mint(sessionID id.SessionID, expiresIn time.Duration) (string, error)
	Validate(tokenString string) (id.SessionID, error)
}

// LoginResult carries everything the transport layer needs after a
// successful login: the user for the response body and the signed token for
// the cookie.
type LoginResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// AuthState is the checkAuth answer: authenticated or not, with the bound
// user when it is.
type AuthState struct {
	Authenticated bool
	User          *models.User
}

// Service implements username/password login against the user store and
// session lifecycle against the session store.
type Service struct {
	users      UserStore
	sessions   SessionStore
	tokens     TokenMinter
	auditor    audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	sessionTTL time.Duration
	tracer     trace.Tracer
}

func New(users UserStore, sessions SessionStore, tokens TokenMinter, auditor audit.Publisher, m *metrics.Metrics, logger *slog.Logger, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		auditor:    auditor,
		metrics:    m,
		logger:     logger,
		sessionTTL: sessionTTL,
		tracer:     otel.Tracer("legado/internal/auth"),
	}
}

// Login verifies the credential pair and establishes a session. An unknown
// username fails with CodeIncorrectUsername, a wrong password with
// CodeIncorrectPassword; both read as 401 on the wire.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordLoginFailure(ctx, username, "incorrect username")
			return nil, dErrors.New(dErrors.CodeIncorrectUsername, "Incorrect username")
		}
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "user lookup failed", err)
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		s.recordLoginFailure(ctx, username, "incorrect password")
		return nil, dErrors.New(dErrors.CodeIncorrectPassword, "Incorrect password")
	}

	now := requestcontext.Now(ctx)
	session := &models.Session{
		ID:           id.NewSessionID(),
		UserID:       user.ID,
		Device:       device.Describe(requestcontext.UserAgent(ctx)),
		IPAddress:    requestcontext.ClientIP(ctx),
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "session create failed", err)
	}

	tokenString, err := s.tokens.Mint(session.ID, s.sessionTTL)
	if err != nil {
		// The session is unusable without its cookie; remove it again.
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "orphaned session cleanup failed",
				"session_id", session.ID.String(),
				"error", delErr,
			)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "session token mint failed", err)
	}

	s.metrics.IncLogin("success")
	s.auditor.Publish(audit.Event{
		Timestamp: now,
		UserID:    user.ID,
		Subject:   username,
		Action:    audit.EventLoginSucceeded,
		RequestID: requestcontext.RequestID(ctx),
	})

	return &LoginResult{User: user, Session: session, Token: tokenString}, nil
}

// Logout destroys the session named by the cookie token. It is idempotent:
// a missing, expired, or garbage token is still a successful logout.
func (s *Service) Logout(ctx context.Context, tokenString string) {
	ctx, span := s.tracer.Start(ctx, "auth.Logout")
	defer span.End()

	sessionID, err := s.tokens.Validate(tokenString)
	if err != nil {
		return
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "session delete failed",
			"session_id", sessionID.String(),
			"error", err,
		)
		return
	}

	s.auditor.Publish(audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    session.UserID,
		Subject:   sessionID.String(),
		Action:    audit.EventLogout,
		RequestID: requestcontext.RequestID(ctx),
	})
}

// CheckAuth resolves the cookie token to its session and bound user. Any
// failure along the way reads as unauthenticated, never as an error.
func (s *Service) CheckAuth(ctx context.Context, tokenString string) AuthState {
	ctx, span := s.tracer.Start(ctx, "auth.CheckAuth")
	defer span.End()

	sessionID, err := s.tokens.Validate(tokenString)
	if err != nil {
		return AuthState{}
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return AuthState{}
	}

	now := requestcontext.Now(ctx)
	if session.Expired(now) {
		return AuthState{}
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return AuthState{}
	}

	if err := s.sessions.Touch(ctx, sessionID, now); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "session touch failed",
			"session_id", sessionID.String(),
			"error", err,
		)
	}

	return AuthState{Authenticated: true, User: user}
}

func (s *Service) recordLoginFailure(ctx context.Context, username, reason string) {
	s.metrics.IncLogin("failure")
	s.auditor.Publish(audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   username,
		Action:    audit.EventLoginFailed,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
