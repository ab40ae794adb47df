package api

import (
	"time"

	"smartgrid/wattson/internal/common"
	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/db"
	"smartgrid/wattson/internal/db/repositories"
	"smartgrid/wattson/internal/logging"
	"smartgrid/wattson/internal/metrics"
	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/services"
	"smartgrid/wattson/internal/wizard"
)

type Repositories struct {
	ProviderConfig *repositories.ProviderConfigRepo
	Measurement    *repositories.MeasurementRepo
}

type Services struct {
	Cache    common.CacheInterface
	Provider *services.ProviderService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Factory  *providers.AdapterFactory
	Engine   *wizard.Engine
	Redis    *common.RedisCacheService
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires the registry, adapter factory, wizard engine,
// cache and persistence together. Redis is preferred for the value cache;
// when it is unreachable we fall back to the in-memory cache so a missing
// Redis never blocks startup.
func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		ProviderConfig: repositories.NewProviderConfigRepo(db.PgDB),
		Measurement:    repositories.NewMeasurementRepo(db.DB),
	}

	var cacheSvc common.CacheInterface
	var redisSvc *common.RedisCacheService

	redisSvc, err := common.NewRedisCacheService()
	if err != nil {
		logging.Warn("Redis unavailable, using in-memory cache", "error", err.Error())
		redisSvc = nil
		cacheSvc = common.NewCacheService(constants.LiveValueCacheTTL, 5*time.Minute)
	} else {
		cacheSvc = redisSvc
	}

	definitions := providers.Definitions()
	factory := providers.NewAdapterFactory(definitions)

	store := wizard.NewSessionStore(constants.DefaultWizardSessionTTL)
	store.StartSweeper(constants.DefaultWizardSweepEvery)

	engine := wizard.NewEngine(definitions, wizard.Graphs(factory), store)

	providerSvc := services.NewProviderService(
		definitions,
		factory,
		repos.ProviderConfig,
		repos.Measurement,
		cacheSvc,
	)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:    cacheSvc,
			Provider: providerSvc,
		},
		Factory: factory,
		Engine:  engine,
		Redis:   redisSvc,
		Metrics: metricsReg,
	}, nil
}
