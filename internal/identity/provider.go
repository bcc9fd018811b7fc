package identity

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/reeljournal/reeljournal/pkg/auth"
	"github.com/reeljournal/reeljournal/pkg/config"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	pkglogger "github.com/reeljournal/reeljournal/pkg/logger"
)

const (
	// GinKey is where Middleware stores the resolved identity.
	GinKey = "identity"

	sessionUserID = "user_id"
	sessionName   = "display_name"
)

// NewSessionStore builds the cookie store backing signed-in sessions.
func NewSessionStore(cfg config.AuthConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Provider resolves the current identity of a request from a bearer token
// or a cookie session. It never provisions identities; tokens come from the
// external identity provider.
type Provider struct {
	tokens *auth.TokenManager
	logger interfaces.Logger
}

// NewProvider creates a new identity provider.
func NewProvider(tokens *auth.TokenManager, logger interfaces.Logger) *Provider {
	return &Provider{tokens: tokens, logger: logger}
}

// CurrentUser returns the identity of the request, or false for anonymous
// callers. A bearer token wins over the session cookie; an invalid token
// makes the request anonymous.
func (p *Provider) CurrentUser(c *gin.Context) (*Identity, bool) {
	if v, ok := c.Get(GinKey); ok {
		id, ok := v.(*Identity)
		return id, ok && id != nil
	}

	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := auth.BearerToken(header)
		if !ok {
			return nil, false
		}
		claims, err := p.tokens.Validate(token)
		if err != nil {
			p.logger.WithContext(c.Request.Context()).Debug("Rejected bearer token", interfaces.Error(err))
			return nil, false
		}
		return &Identity{ID: claims.Subject, DisplayName: claims.DisplayName}, true
	}

	session := sessions.Default(c)
	userID, _ := session.Get(sessionUserID).(string)
	if userID == "" {
		return nil, false
	}
	name, _ := session.Get(sessionName).(string)
	return &Identity{ID: userID, DisplayName: name}, true
}

// SignIn validates token and binds its identity to the session cookie.
func (p *Provider) SignIn(c *gin.Context, token string) (*Identity, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return nil, pkgerrors.Unauthorized("invalid identity token")
	}

	id := &Identity{ID: claims.Subject, DisplayName: claims.DisplayName}
	session := sessions.Default(c)
	session.Set(sessionUserID, id.ID)
	session.Set(sessionName, id.DisplayName)
	if err := session.Save(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrorTypeInternal, "failed to save session", err)
	}

	c.Set(GinKey, id)
	p.logger.WithContext(c.Request.Context()).Info("Signed in", interfaces.String("user_id", id.ID))
	return id, nil
}

// SignOut ends the cookie session. Signing out an anonymous request is a
// no-op. Bearer tokens stay valid until they expire.
func (p *Provider) SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	userID, _ := session.Get(sessionUserID).(string)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrorTypeInternal, "failed to clear session", err)
	}

	c.Set(GinKey, (*Identity)(nil))
	if userID != "" {
		p.logger.WithContext(c.Request.Context()).Info("Signed out", interfaces.String("user_id", userID))
	}
	return nil
}

// Middleware resolves the identity once per request and stores it on the
// gin context and the request context.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := p.CurrentUser(c); ok {
			c.Set(GinKey, id)
			ctx := pkglogger.WithActor(WithIdentity(c.Request.Context(), id), id.ID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// Actor returns the identity for service calls, nil when anonymous.
func Actor(ctx context.Context) *Identity {
	id, _ := FromContext(ctx)
	return id
}
