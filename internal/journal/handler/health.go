package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const readinessTimeout = 2 * time.Second

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	db      *gorm.DB
	service string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, service, version string) *HealthHandler {
	return &HealthHandler{db: db, service: service, version: version}
}

// RegisterRoutes mounts /healthz and /readyz.
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Live)
	r.GET("/readyz", h.Ready)
}

// Live reports that the process is serving.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service, "version": h.version})
}

// Ready reports whether the database answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.Check(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Check pings the database.
func (h *HealthHandler) Check(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
