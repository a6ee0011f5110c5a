package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legado/internal/auth/models"
	"legado/internal/auth/service"
	sessionstore "legado/internal/auth/store/session"
	userstore "legado/internal/auth/store/user"
	"legado/internal/platform/metrics"
	"legado/internal/token"
	id "legado/pkg/domain"
	"legado/pkg/platform/audit"
	"legado/pkg/secrets"
	"legado/pkg/testutil"
)

var platformMetrics = metrics.New()

const testTTL = time.Hour

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()

	users := userstore.New()
	hash, err := secrets.Hash("hunter2")
	require.NoError(t, err)
	require.NoError(t, users.Save(context.Background(), &models.User{
		ID:           id.NewUserID(),
		Username:     "jane",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(users, sessionstore.New(), token.NewService("test-signing-key"), audit.NopPublisher{}, platformMetrics, logger, testTTL)

	r := chi.NewRouter()
	New(svc, logger, testTTL, false).Register(r)
	return r
}

func login(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	return testutil.DoRequest(router, req)
}

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestLoginSuccess(t *testing.T) {
	router := newAuthRouter(t)

	rr := login(t, router, "jane", "hunter2")
	testutil.AssertStatus(t, rr, http.StatusOK)

	user := testutil.UnmarshalResponse[models.User](t, rr)
	assert.Equal(t, "jane", user.Username)
	assert.False(t, user.ID.IsNil())
	// The hash must never appear in a response body.
	assert.NotContains(t, rr.Body.String(), "password")

	cookie := sessionCookieFrom(t, rr)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginIncorrectUsername(t *testing.T) {
	router := newAuthRouter(t)

	rr := login(t, router, "ghost", "hunter2")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	testutil.AssertErrorMessage(t, rr, "Incorrect username")
}

func TestLoginIncorrectPassword(t *testing.T) {
	router := newAuthRouter(t)

	// Correct username, wrong password: must fail on the password, never
	// the username.
	rr := login(t, router, "jane", "wrong")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	testutil.AssertErrorMessage(t, rr, "Incorrect password")
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	router := newAuthRouter(t)

	rr := login(t, router, "", "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestCheckAuthBeforeLogin(t *testing.T) {
	router := newAuthRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/check-auth"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, rr.Body.String())
}

func TestCheckAuthAfterLogin(t *testing.T) {
	router := newAuthRouter(t)

	loginRR := login(t, router, "jane", "hunter2")
	testutil.AssertStatus(t, loginRR, http.StatusOK)
	cookie := sessionCookieFrom(t, loginRR)

	req := testutil.NewRequest(t, http.MethodGet, "/api/check-auth")
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	state := testutil.UnmarshalResponse[struct {
		Authenticated bool         `json:"authenticated"`
		User          *models.User `json:"user"`
	}](t, rr)
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "jane", state.User.Username)
}

func TestCheckAuthRejectsTamperedCookie(t *testing.T) {
	router := newAuthRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/api/check-auth")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-signed-token"})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, rr.Body.String())
}

func TestLogout(t *testing.T) {
	router := newAuthRouter(t)

	loginRR := login(t, router, "jane", "hunter2")
	cookie := sessionCookieFrom(t, loginRR)

	req := testutil.NewRequest(t, http.MethodPost, "/api/logout")
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertMessage(t, rr, "Logged out successfully")

	cleared := sessionCookieFrom(t, rr)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// The session is gone: the old cookie no longer authenticates.
	checkReq := testutil.NewRequest(t, http.MethodGet, "/api/check-auth")
	checkReq.AddCookie(cookie)
	checkRR := testutil.DoRequest(router, checkReq)
	testutil.AssertStatus(t, checkRR, http.StatusUnauthorized)
}

func TestLogoutWithoutSession(t *testing.T) {
	router := newAuthRouter(t)

	// Logout is idempotent: no cookie, still a 200.
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/api/logout"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertMessage(t, rr, "Logged out successfully")
}
