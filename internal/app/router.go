package app

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ironvale/inventory-backend/internal/handlers"
)

func wireRouter(cfg Config, h Handlers) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.AppName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": cfg.AppName + " API"})
	})
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group(cfg.APIPrefix)

	assets := api.Group("/assets")
	{
		assets.GET("", h.Asset.List)
		assets.POST("", h.Asset.Create)
		assets.GET("/:asset_id", h.Asset.Get)
		assets.PATCH("/:asset_id", h.Asset.Update)
		assets.DELETE("/:asset_id", h.Asset.Delete)
		assets.POST("/:asset_id/transition", h.Asset.Transition)
		assets.GET("/:asset_id/events", h.Asset.ListEvents)
	}

	people := api.Group("/people")
	{
		people.GET("", h.Person.List)
		people.POST("", h.Person.Create)
		people.GET("/:person_id", h.Person.Get)
		people.PATCH("/:person_id", h.Person.Update)
		people.DELETE("/:person_id", h.Person.Delete)
		people.GET("/:person_id/assignments", h.Person.ListAssignments)
		people.POST("/:person_id/offboard", h.Person.Offboard)
	}

	metadata := api.Group("/metadata")
	{
		metadata.GET("/organisation-units", h.Catalog.ListOrgUnits)
		metadata.POST("/organisation-units", h.Catalog.CreateOrgUnit)
		metadata.PATCH("/organisation-units/:unit_id", h.Catalog.UpdateOrgUnit)
		metadata.DELETE("/organisation-units/:unit_id", h.Catalog.DeleteOrgUnit)

		metadata.GET("/asset-types", h.Catalog.ListAssetTypes)
		metadata.POST("/asset-types", h.Catalog.CreateAssetType)
		metadata.PATCH("/asset-types/:type_id", h.Catalog.UpdateAssetType)
		metadata.DELETE("/asset-types/:type_id", h.Catalog.DeleteAssetType)

		metadata.GET("/asset-models", h.Catalog.ListAssetModels)
		metadata.POST("/asset-models", h.Catalog.CreateAssetModel)
		metadata.PATCH("/asset-models/:model_id", h.Catalog.UpdateAssetModel)
		metadata.DELETE("/asset-models/:model_id", h.Catalog.DeleteAssetModel)
	}

	api.GET("/dashboard/summary", h.Dashboard.Summary)

	return router
}
