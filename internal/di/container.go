// Package di provides dependency injection configuration for the LevelUp server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/levelupapp/levelup-server/internal/config"
	"github.com/levelupapp/levelup-server/internal/di/providers"
	"github.com/levelupapp/levelup-server/internal/logger"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Progression rules
	do.Provide(injector, providers.ProvideEngine)
	do.Provide(injector, providers.ProvideClock)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideNotifier)
	do.Provide(injector, providers.ProvideProgressionService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideLeaderboardService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services so configuration or storage errors
// surface at startup rather than on the first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*progression.Engine](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.ProgressionService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.LeaderboardService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
