package app

import (
	"github.com/ironvale/inventory-backend/internal/handlers"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type Handlers struct {
	Asset     *handlers.AssetHandler
	Person    *handlers.PersonHandler
	Catalog   *handlers.CatalogHandler
	Dashboard *handlers.DashboardHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	return Handlers{
		Asset:     handlers.NewAssetHandler(log, s.Asset),
		Person:    handlers.NewPersonHandler(log, s.Person, s.Offboarding),
		Catalog:   handlers.NewCatalogHandler(log, s.Catalog),
		Dashboard: handlers.NewDashboardHandler(log, s.Dashboard),
	}
}
