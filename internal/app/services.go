package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/services"
)

type Services struct {
	Recorder    *services.EventRecorder
	Ledger      *services.AssignmentLedger
	Graph       *services.RelationshipGraph
	Transitions *services.TransitionService
	Offboarding *services.OffboardingService

	Asset     *services.AssetService
	Person    *services.PersonService
	Catalog   *services.CatalogService
	Dashboard *services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r *repos.Repos, redisClient *goredis.Client) Services {
	recorder := services.NewEventRecorder(r.Event, log)
	ledger := services.NewAssignmentLedger(r.Assignment, recorder, log)
	graph := services.NewRelationshipGraph(r.Asset, r.Relationship, recorder, log)
	transitions := services.NewTransitionService(r.Asset, ledger, graph, recorder, log)
	offboarding := services.NewOffboardingService(db, r.Asset, r.Person, transitions, log)

	return Services{
		Recorder:    recorder,
		Ledger:      ledger,
		Graph:       graph,
		Transitions: transitions,
		Offboarding: offboarding,

		Asset:     services.NewAssetService(db, r, transitions, recorder, log),
		Person:    services.NewPersonService(db, r, log),
		Catalog:   services.NewCatalogService(db, r, log),
		Dashboard: services.NewDashboardService(r, redisClient, cfg.DashboardCacheTTL, log),
	}
}
