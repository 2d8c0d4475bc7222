//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"gsd/internal"
	"gsd/internal/controllers"
	"gsd/internal/crypto"
	"gsd/internal/integrity"
	"gsd/internal/providers"
	"gsd/internal/save"
	"gsd/internal/services"
	"gsd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		crypto.NewStaticKeyProvider,
		crypto.NewCipherEngine,
		integrity.NewValidator,
		integrity.NewMigrator,

		save.NewPaths,
		save.NewEvents,
		save.NewRuntimeCache,
		save.NewStatsSource,
		save.NewOperationQueue,
		save.NewStore,
		save.NewBackupManager,
		save.NewZstdCompressor,
		save.NewScheduler,

		services.NewSaveService,
		services.NewSchedulerTarget,

		controllers.NewSaveController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
