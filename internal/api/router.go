package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/api/handlers"
	"github.com/stitts-dev/pga-pick-tracker/internal/api/middleware"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
)

// Services bundles what the handlers need. Hub may be nil.
type Services struct {
	DB      *database.DB
	Fields  *services.FieldService
	Picks   *services.PickService
	History *services.HistoryService
	Fetcher *services.DataFetcherService
	Hub     *websocket.Hub
}

// NewRouter builds the engine with middleware, health, websocket and /api/v1 routes
func NewRouter(svc Services, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(svc.DB, svc.Hub)
	router.GET("/health", healthHandler.GetHealth)
	if svc.Hub != nil {
		router.GET("/ws", svc.Hub.HandleWebSocket)
	}

	SetupRoutes(router.Group("/api/v1"), svc, cfg, logger)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	tournamentHandler := handlers.NewTournamentHandler(svc.Fetcher, logger)
	fieldHandler := handlers.NewFieldHandler(svc.Fields, svc.Picks, svc.Fetcher, cfg, logger)
	playerHandler := handlers.NewPlayerHandler(svc.Fields, svc.Fetcher, cfg, logger)
	pickHandler := handlers.NewPickHandler(svc.Picks, svc.Hub, logger)
	historyHandler := handlers.NewHistoryHandler(svc.History, svc.Hub, logger)

	// Tournament endpoints
	group.GET("/tournaments/current", tournamentHandler.GetCurrentTournament)
	group.GET("/weekly-check", tournamentHandler.GetWeeklyCheck)

	// Field endpoints
	group.GET("/field", fieldHandler.GetField)
	group.GET("/field/value-picks", fieldHandler.GetValuePicks)
	group.GET("/field/export.xlsx", fieldHandler.ExportField)

	// Player endpoints
	group.GET("/players/:name", playerHandler.GetPlayer)

	// Pick endpoints
	group.GET("/picks", pickHandler.ListPicks)
	group.GET("/picks/summary", pickHandler.GetSummary)
	group.GET("/picks/used", pickHandler.GetUsedPlayers)

	// Authenticated routes
	auth := group.Group("")
	auth.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		auth.POST("/picks", pickHandler.AddPick)
		auth.POST("/picks/historical", pickHandler.AddHistoricalPicks)
		auth.PUT("/picks/result", pickHandler.UpdateResult)
		auth.DELETE("/picks", pickHandler.ClearSeason)

		auth.POST("/history/import", historyHandler.ImportHistory)
		auth.POST("/history/rebuild", historyHandler.RebuildHistory)

		auth.POST("/refresh", tournamentHandler.Refresh)
	}
}
