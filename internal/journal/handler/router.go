package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

// APIPrefix is where the journal API is mounted.
const APIPrefix = "/api/v1"

// MediaMount serves locally stored images; an empty Dir disables it.
type MediaMount struct {
	URLPath string
	Dir     string
}

// NewRouter assembles the gin engine: recovery, request logging, sessions,
// identity resolution, then the routes.
func NewRouter(
	cfg config.AuthConfig,
	journal *Handler,
	health *HealthHandler,
	provider *identity.Provider,
	store sessions.Store,
	media MediaMount,
	log interfaces.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinRecovery(log))
	r.Use(logger.GinMiddleware(log))

	health.RegisterRoutes(r)
	if media.Dir != "" {
		r.Static(media.URLPath, media.Dir)
	}

	api := r.Group(APIPrefix)
	api.Use(sessions.Sessions(cfg.SessionName, store))
	api.Use(provider.Middleware())
	journal.RegisterRoutes(api)

	return r
}
