package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reeljournal/reeljournal/internal/handlers"
	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/internal/infrastructure/events"
	grpcinfra "github.com/reeljournal/reeljournal/internal/infrastructure/grpc"
	"github.com/reeljournal/reeljournal/internal/infrastructure/storage"
	"github.com/reeljournal/reeljournal/internal/journal/handler"
	"github.com/reeljournal/reeljournal/internal/journal/service"
	"github.com/reeljournal/reeljournal/pkg/auth"
	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/database"
	pkgevents "github.com/reeljournal/reeljournal/pkg/events"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

// JournalContainer holds the assembled journal service.
type JournalContainer struct {
	Config  *config.JournalConfig
	Logger  *zap.Logger
	DB      *gorm.DB
	Bus     *pkgevents.InMemoryEventBus
	Journal *service.JournalService
	Health  *handler.HealthHandler
	Router  *gin.Engine
	GRPC    *grpcinfra.Server
}

func ProvideLogger(z *zap.Logger) interfaces.Logger {
	return logger.NewFromZap(z)
}

// ProvideDatabase opens the database and brings the schema up to date.
func ProvideDatabase(cfg *config.JournalConfig, z *zap.Logger) (*gorm.DB, func(), error) {
	db, cleanup, err := database.Open(cfg.Database, z, cfg.Logger.Level == "debug")
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, z); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, cleanup, nil
}

// ProvideEventBus starts the in-process bus with the activity log attached.
func ProvideEventBus(ctx context.Context, log interfaces.Logger, z *zap.Logger) (*pkgevents.InMemoryEventBus, func(), error) {
	bus := pkgevents.NewInMemoryEventBus(log)
	if err := SetupSubscribers(bus, z); err != nil {
		return nil, nil, err
	}
	if err := bus.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start event bus: %w", err)
	}
	return bus, func() { _ = bus.Stop() }, nil
}

// SetupSubscribers registers the in-process event handlers on bus.
func SetupSubscribers(bus *pkgevents.InMemoryEventBus, z *zap.Logger) error {
	activity := handlers.NewActivityHandler(z)
	return bus.Subscribe(activity.EventType(), activity)
}

func ProvidePublisher(
	ctx context.Context,
	cfg *config.JournalConfig,
	bus *pkgevents.InMemoryEventBus,
	z *zap.Logger,
) (interfaces.EventPublisher, func(), error) {
	return events.NewPublisher(ctx, cfg.Events, cfg.Service.Name, bus, z)
}

func ProvideSettings(cfg *config.JournalConfig) config.JournalSettings {
	return cfg.Journal
}

func ProvideTokenManager(cfg *config.JournalConfig) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenDuration)
}

func ProvideSessionStore(cfg *config.JournalConfig) sessions.Store {
	return identity.NewSessionStore(cfg.Auth)
}

func ProvideUploader(ctx context.Context, cfg *config.JournalConfig, log interfaces.Logger) (*storage.Uploader, error) {
	store, err := storage.NewImageStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}
	return storage.NewUploader(store, cfg.Storage, log), nil
}

func ProvideHealthHandler(db *gorm.DB, cfg *config.JournalConfig) *handler.HealthHandler {
	return handler.NewHealthHandler(db, cfg.Service.Name, config.GetServiceVersion(&cfg.Service))
}

// ProvideMediaMount serves local uploads from the router when the public
// base URL is a path on this host.
func ProvideMediaMount(cfg *config.JournalConfig) handler.MediaMount {
	if cfg.Storage.Type != config.StorageLocal || !strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		return handler.MediaMount{}
	}
	return handler.MediaMount{URLPath: cfg.Storage.PublicBaseURL, Dir: cfg.Storage.LocalPath}
}

func ProvideRouter(
	cfg *config.JournalConfig,
	journal *handler.Handler,
	health *handler.HealthHandler,
	provider *identity.Provider,
	store sessions.Store,
	media handler.MediaMount,
	log interfaces.Logger,
) *gin.Engine {
	if config.IsProduction(&cfg.Service) {
		gin.SetMode(gin.ReleaseMode)
	}
	return handler.NewRouter(cfg.Auth, journal, health, provider, store, media, log)
}

func ProvideGRPCServer(cfg *config.JournalConfig, z *zap.Logger) *grpcinfra.Server {
	return grpcinfra.NewServer(cfg.Service.Name, z)
}
