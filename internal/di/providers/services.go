package providers

import (
	"github.com/samber/do/v2"

	"github.com/levelupapp/levelup-server/internal/config"
	"github.com/levelupapp/levelup-server/internal/logger"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/service"
	"github.com/levelupapp/levelup-server/internal/sse"
	"github.com/levelupapp/levelup-server/internal/validation"
)

// ProvideEngine loads the level table and task catalog, applying file overrides.
func ProvideEngine(i do.Injector) (*progression.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	levels, err := progression.LoadLevels(cfg.Progression.LevelsFile)
	if err != nil {
		return nil, err
	}
	catalog, err := progression.LoadTasks(cfg.Progression.TasksFile)
	if err != nil {
		return nil, err
	}

	log.Info("Progression rules loaded",
		"levels", len(levels.Levels()),
		"max_level", levels.Max().Name,
		"tasks", len(catalog.Tasks()),
		"daily_xp", catalog.TotalDailyXP(),
	)

	return progression.NewEngine(levels, catalog), nil
}

// ProvideClock provides the clock that decides the current day.
func ProvideClock(i do.Injector) (progression.Clock, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return progression.SystemClock{Location: cfg.Progression.Location}, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideNotifier sends progression events to SSE subscribers.
func ProvideNotifier(i do.Injector) (service.Notifier, error) {
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	return sse.NewNotifier(sseHandle.Manager), nil
}

// ProvideProgressionService provides the progression service.
func ProvideProgressionService(i do.Injector) (*service.ProgressionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engine := do.MustInvoke[*progression.Engine](i)
	clock := do.MustInvoke[progression.Clock](i)
	notifier := do.MustInvoke[service.Notifier](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressionService(
		storeHandle.Repository,
		engine,
		clock,
		notifier,
		cfg.Progression.MaxSaveAttempts,
		log.Logger,
	), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Repository, validator, log.Logger), nil
}

// ProvideLeaderboardService provides the leaderboard service.
func ProvideLeaderboardService(i do.Injector) (*service.LeaderboardService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engine := do.MustInvoke[*progression.Engine](i)
	clock := do.MustInvoke[progression.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLeaderboardService(
		storeHandle.Repository,
		engine,
		clock,
		cfg.Leaderboard.DefaultLimit,
		cfg.Leaderboard.MaxLimit,
		log.Logger,
	), nil
}
