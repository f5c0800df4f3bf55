// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/javajoker/residence-backend/internal/config"
	"github.com/javajoker/residence-backend/internal/handlers"
	"github.com/javajoker/residence-backend/internal/metrics"
	"github.com/javajoker/residence-backend/internal/middleware"
	"github.com/javajoker/residence-backend/internal/repository"
	"github.com/javajoker/residence-backend/internal/services"
	"github.com/javajoker/residence-backend/internal/utils"
)

// App is the wired HTTP application. Background workers are drained by Close.
type App struct {
	Engine     *gin.Engine
	Dispatcher *services.Dispatcher
	Audit      *middleware.AuditLogger

	stop chan struct{}
}

// Close stops the rate limiter janitor and waits for queued notifications and
// audit rows.
func (a *App) Close() {
	close(a.stop)
	a.Dispatcher.Wait()
	a.Audit.Wait()
}

func Initialize(db *gorm.DB, cfg *config.Config) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.New(registry)

	// Initialize services
	uow := repository.NewUnitOfWork(db)
	stores := repository.NewStores(db)
	notificationService := services.NewNotificationService(db)
	dispatcher := services.NewDispatcher(notificationService, cfg.Lease.NotificationTimeout, workflowMetrics)

	leaseService := services.NewLeaseService(uow, stores, dispatcher, workflowMetrics, cfg.Lease)
	apartmentService := services.NewApartmentService(stores.Apartments)

	// Initialize handlers
	leaseRequestHandler := handlers.NewLeaseRequestHandler(leaseService)
	apartmentHandler := handlers.NewApartmentHandler(apartmentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	app := &App{
		Dispatcher: dispatcher,
		Audit:      middleware.NewAuditLogger(db),
		stop:       make(chan struct{}),
	}

	createLimiter := middleware.LeaseCreateRateLimiter(cfg.RateLimit)
	go createLimiter.Cleanup(app.stop)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(app.Audit.Middleware())
	{
		apartments := v1.Group("/apartments")
		{
			apartments.GET("/listings", apartmentHandler.ListListings)
		}

		leaseRequests := v1.Group("/lease-requests")
		{
			leaseRequests.POST("", middleware.OptionalAuth(), createLimiter.Middleware(), leaseRequestHandler.CreateLeaseRequest)

			authed := leaseRequests.Group("")
			authed.Use(middleware.AuthRequired())
			{
				authed.GET("", leaseRequestHandler.ListLeaseRequests)
				authed.GET("/:id", leaseRequestHandler.GetLeaseRequest)
				authed.PUT("/:id/owner-decision", leaseRequestHandler.OwnerDecision)
				authed.PUT("/:id/decision", leaseRequestHandler.DecideLeaseRequest)
				authed.PUT("/:id/cancel", leaseRequestHandler.CancelLeaseRequest)
			}
		}
	}

	app.Engine = r
	return app
}
