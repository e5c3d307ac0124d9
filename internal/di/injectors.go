//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"sbd/internal"
	"sbd/internal/badge"
	"sbd/internal/controllers"
	"sbd/internal/events"
	"sbd/internal/poll"
	"sbd/internal/providers"
	"sbd/internal/services"
	"sbd/internal/storage"
	"sbd/internal/structures"
	"sbd/internal/twitch"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,

		storage.NewZstdCompressor,
		storage.NewStore,
		wire.Bind(new(providers.SnapshotSource), new(*storage.Store)),
		wire.Bind(new(twitch.TokenSource), new(*storage.Store)),

		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		badge.NewStatusBadge,
		events.NewBus,

		services.NewAuthSentinel,
		wire.Bind(new(twitch.UnauthorizedHandler), new(*services.AuthSentinel)),
		twitch.NewClient,
		wire.Bind(new(twitch.API), new(*twitch.Client)),

		services.NewStreamService,
		poll.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
