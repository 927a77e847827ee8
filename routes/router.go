package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/config"
	"github.com/cppla/homelab/controllers"
	"github.com/cppla/homelab/middleware"
	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, petitions *store.Petitions, visits *store.Visits, cache *utils.Cache) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Access log goes to its own rolling file; fall back to the app logger.
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err != nil {
			utils.Sugar.Warnf("gin log file %s unavailable, using app logger: %v", cfg.GinPath, err)
		} else {
			accessLog = gl
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"message": "Homelab API running"})
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	petitionController := controllers.NewPetitionController(petitions, petitions, cache)
	statsController := controllers.NewStatsController(petitions, petitions)
	homeController := controllers.NewHomeController(visits)

	api := r.Group("/api")

	home := api.Group("/home")
	home.GET("/", middleware.TrackVisit(visits, models.PageHome), homeController.GetHomeStats)

	petitionsGroup := api.Group("/petitions")
	petitionsGroup.GET("/", middleware.TrackVisit(visits, models.PagePetitions), petitionController.Tracked)
	petitionsGroup.GET("/items", petitionController.ListActiveItems)
	petitionsGroup.GET("/items/all", petitionController.ListAllItems)
	petitionsGroup.GET("/entries", petitionController.ListEntries)

	writes := petitionsGroup.Group("")
	writes.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	writes.PUT("/items/:id/toggle", petitionController.ToggleItem)
	writes.POST("/entries", petitionController.CreateEntry)
	writes.PUT("/entries/:id", petitionController.UpdateEntry)
	writes.PUT("/entries/:id/draft", petitionController.ToggleDraft)
	writes.DELETE("/entries/:id", petitionController.DeleteEntry)

	about := api.Group("/about")
	about.GET("/", middleware.TrackVisit(visits, models.PageAbout), statsController.Tracked)
	about.GET("/entries", statsController.GetEntries)
	about.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	})

	return r
}
