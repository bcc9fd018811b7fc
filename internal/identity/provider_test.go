package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/pkg/auth"
	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

func newRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("secret", "journal-test", time.Hour)
	provider := identity.NewProvider(tokens, logger.NewNoopLogger())

	r := gin.New()
	r.Use(sessions.Sessions("journal_session", identity.NewSessionStore(config.AuthConfig{
		SessionSecret: "session-secret",
		SessionMaxAge: time.Hour,
	})))
	r.Use(provider.Middleware())

	r.POST("/session", func(c *gin.Context) {
		id, err := provider.SignIn(c, c.PostForm("token"))
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, id.ID)
	})
	r.DELETE("/session", func(c *gin.Context) {
		require.NoError(t, provider.SignOut(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", func(c *gin.Context) {
		id, ok := provider.CurrentUser(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		ctxID, _ := identity.FromContext(c.Request.Context())
		assert.Equal(t, id, ctxID)
		c.String(http.StatusOK, id.ID+"|"+id.DisplayName)
	})
	return r, tokens
}

func TestCurrentUser_Anonymous(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUser_BearerToken(t *testing.T) {
	r, tokens := newRouter(t)
	token, _, err := tokens.Issue("user-1", "Ada")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1|Ada", w.Body.String())
}

func TestCurrentUser_InvalidBearerIsAnonymous(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r, tokens := newRouter(t)
	token, _, err := tokens.Issue("user-2", "Grace")
	require.NoError(t, err)

	// Sign in
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req.PostForm = map[string][]string{"token": {token}}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Cookie identifies the user
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2|Grace", w.Body.String())

	// Sign out
	req = httptest.NewRequest(http.MethodDelete, "/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	// The cleared cookie is anonymous
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cleared {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignIn_RejectsBadToken(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req.PostForm = map[string][]string{"token": {"garbage"}}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
