// Package server assembles the budget services and exposes them over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"budgetex/internal/budget"
	"budgetex/internal/database"
	"budgetex/internal/handlers"
	"budgetex/internal/metrics"
	"budgetex/internal/middleware"
	"budgetex/internal/services"

	_ "budgetex/internal/docs" // registers the swagger document
)

// Options are the inputs the application is built from.
type Options struct {
	DB      *gorm.DB
	Catalog *budget.Catalog
	Prefs   services.PreferencesServicer
	// Clock defaults to time.Now.
	Clock services.Clock
	// SummaryPeriods is the analytics window used when a request names none.
	SummaryPeriods int
}

// App is the wired application.
type App struct {
	Router  *gin.Engine
	Session services.SessionServicer
	Metrics *metrics.Metrics
}

// New builds the store, services and handlers and registers every route.
func New(opts Options) (*App, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	if opts.SummaryPeriods < 1 {
		opts.SummaryPeriods = 6
	}

	m := metrics.New()
	store := database.NewStore(opts.DB)

	scenarioService := services.NewScenarioService(opts.Catalog, opts.Prefs)
	snapshotService := services.NewSnapshotService(store, clock, m)
	resolutionService := services.NewResolutionService(snapshotService, store, opts.Prefs, m)
	analyzerService := services.NewAnalyzerService(snapshotService)
	historyService := services.NewHistoryService(opts.DB, clock)
	importService := services.NewImportService()
	auditService := services.NewAuditService(opts.DB)

	sessionService, err := services.NewSessionService(services.SessionDeps{
		Scenarios: scenarioService,
		Snapshots: snapshotService,
		Resolver:  resolutionService,
		Store:     store,
		History:   historyService,
		Prefs:     opts.Prefs,
		Metrics:   m,
		Clock:     clock,
	})
	if err != nil {
		return nil, err
	}

	scenarioHandler := handlers.NewScenarioHandler(scenarioService)
	periodHandler := handlers.NewPeriodHandler(snapshotService, sessionService, opts.Prefs, auditService)
	sessionHandler := handlers.NewSessionHandler(sessionService, scenarioService, importService, auditService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyzerService, opts.SummaryPeriods)
	historyHandler := handlers.NewHistoryHandler(historyService)
	auditHandler := handlers.NewAuditHandler(auditService)
	preferencesHandler := handlers.NewPreferencesHandler(opts.Prefs, auditService)
	statsHandler := handlers.NewStatsHandler(store)

	router := gin.New()
	// Category names such as "Flex/Buffer" arrive percent-encoded in a single segment.
	router.UseRawPath = true
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.LocalCORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	v1.GET("/scenarios", scenarioHandler.ListScenarios)
	v1.GET("/scenarios/:name", scenarioHandler.GetScenario)
	v1.POST("/scenarios/:name/validate", scenarioHandler.ValidateScenario)
	v1.POST("/calculate", scenarioHandler.Calculate)

	periods := v1.Group("/periods")
	periods.GET("", periodHandler.GeneratePeriods)
	periods.GET("/current", periodHandler.GetCurrentPeriod)
	periods.POST("/custom", periodHandler.CreateCustomPeriod)
	periods.POST("/monthly", periodHandler.CreateMonthlyPeriod)

	session := v1.Group("/session")
	session.GET("", sessionHandler.GetState)
	session.POST("/switch", sessionHandler.SwitchPeriod)
	session.PUT("/income", sessionHandler.SetIncome)
	session.PUT("/view", sessionHandler.SetViewMode)
	session.PUT("/scenario", sessionHandler.SwitchScenario)
	session.PUT("/spending/:category", sessionHandler.SetSpending)
	session.DELETE("/spending", sessionHandler.ClearSpending)
	session.POST("/save", sessionHandler.Save)
	session.GET("/export.csv", sessionHandler.ExportCSV)
	session.POST("/import", sessionHandler.ImportCSV)

	snapshots := v1.Group("/snapshots")
	snapshots.GET("", snapshotHandler.ListSnapshots)
	snapshots.GET("/range", snapshotHandler.GetSnapshotsInRange)
	snapshots.GET("/:id", snapshotHandler.GetSnapshot)
	snapshots.DELETE("/:id", snapshotHandler.DeleteSnapshot)

	analytics := v1.Group("/analytics")
	analytics.GET("/summary", analyticsHandler.GetSpendingSummary)
	analytics.GET("/compare", analyticsHandler.ComparePeriods)
	analytics.GET("/trends/:category", analyticsHandler.GetCategoryTrend)

	v1.GET("/history", historyHandler.GetHistory)
	v1.GET("/audit", auditHandler.ListAuditLog)
	v1.GET("/preferences", preferencesHandler.GetPreferences)
	v1.PUT("/preferences", preferencesHandler.UpdatePreferences)
	v1.GET("/stats", statsHandler.GetStats)

	return &App{Router: router, Session: sessionService, Metrics: m}, nil
}
