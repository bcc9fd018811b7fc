//go:build wireinject
// +build wireinject

package container

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/internal/journal/handler"
	"github.com/reeljournal/reeljournal/internal/journal/query"
	"github.com/reeljournal/reeljournal/internal/journal/repository"
	"github.com/reeljournal/reeljournal/internal/journal/service"
	"github.com/reeljournal/reeljournal/internal/render"
	"github.com/reeljournal/reeljournal/pkg/config"
)

// InitializeJournal assembles the journal service and everything it needs.
func InitializeJournal(ctx context.Context, cfg *config.JournalConfig, logger *zap.Logger) (*JournalContainer, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideDatabase,

		// Repositories
		repository.NewGormReviewRepository,
		wire.Bind(new(repository.ReviewRepository), new(*repository.GormReviewRepository)),
		wire.Bind(new(query.ReviewLister), new(*repository.GormReviewRepository)),
		repository.NewGormRatingLedger,
		wire.Bind(new(repository.RatingLedger), new(*repository.GormRatingLedger)),
		wire.Bind(new(query.AggregateSource), new(*repository.GormRatingLedger)),

		// Events
		ProvideEventBus,
		ProvidePublisher,

		// Domain
		query.NewPipeline,
		ProvideSettings,
		service.NewJournalService,

		// Identity
		ProvideTokenManager,
		identity.NewProvider,
		ProvideSessionStore,

		// HTTP
		ProvideUploader,
		render.NewMarkdown,
		handler.NewHandler,
		ProvideHealthHandler,
		ProvideMediaMount,
		ProvideRouter,

		// gRPC
		ProvideGRPCServer,

		wire.Struct(new(JournalContainer), "*"),
	)
	return nil, nil, nil
}
