package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udb/authordirectory/internal/config"
)

type recordedLogin struct {
	action  string
	success bool
}

type fakeLoginAuditor struct {
	mu     sync.Mutex
	events []recordedLogin
}

func (f *fakeLoginAuditor) LogAuth(_ context.Context, action string, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedLogin{action: action, success: success})
}

type loginFixture struct {
	router  *gin.Engine
	auditor *fakeLoginAuditor
	ctrl    *AuthController
}

func setupLogin(t *testing.T) loginFixture {
	t.Helper()

	cfg := config.Auth{Mode: config.AuthModeLocal, EditorPasswordHash: hashForTest(t)}
	sm, err := NewSessionManager(openSQLDB(t), cfg)
	require.NoError(t, err)

	auditor := &fakeLoginAuditor{}
	ctrl := NewAuthController(NewService(cfg), sm, "", auditor, nil)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(NewMiddleware(sm, cfg).Handler())
	ctrl.RegisterRoutes(router)
	router.GET("/whoami", func(c *gin.Context) {
		if IsEditor(c) {
			c.String(http.StatusOK, "editor")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	return loginFixture{router: router, auditor: auditor, ctrl: ctrl}
}

func postLogin(router *gin.Engine, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.10:1234"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLogin_Success(t *testing.T) {
	f := setupLogin(t)

	rr := postLogin(f.router, url.Values{"password": {testEditorPassword}, "next": {"/authors?visit=abc"}})

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/authors?visit=abc", rr.Header().Get("Location"))
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, "editor", rr.Body.String())

	assert.Equal(t, []recordedLogin{{action: "login", success: true}}, f.auditor.events)
}

func TestLogin_RejectsOpenRedirect(t *testing.T) {
	f := setupLogin(t)

	rr := postLogin(f.router, url.Values{"password": {testEditorPassword}, "next": {"//evil.com"}})

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/authors", rr.Header().Get("Location"))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupLogin(t)

	rr := postLogin(f.router, url.Values{"password": {"definitely-wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid password")
	assert.Equal(t, []recordedLogin{{action: "login_failed", success: false}}, f.auditor.events)
}

func TestLogin_RateLimited(t *testing.T) {
	f := setupLogin(t)
	f.ctrl.rateLimiter = NewRateLimiter(RateLimitConfig{MaxAttempts: 2})

	postLogin(f.router, url.Values{"password": {"wrong-1"}})
	postLogin(f.router, url.Values{"password": {"wrong-2"}})

	rr := postLogin(f.router, url.Values{"password": {testEditorPassword}})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestLogout(t *testing.T) {
	f := setupLogin(t)

	rr := postLogin(f.router, url.Values{"password": {testEditorPassword}})
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/authors", rr.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, "anonymous", rr.Body.String())
}

func TestLoginPage_JSONFallback(t *testing.T) {
	f := setupLogin(t)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login?next=/authors", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Next":"/authors"`)
}
