package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mentor-availability-api/api/swagger"
	"github.com/noah-isme/mentor-availability-api/internal/handler"
	internalmiddleware "github.com/noah-isme/mentor-availability-api/internal/middleware"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	"github.com/noah-isme/mentor-availability-api/internal/repository"
	"github.com/noah-isme/mentor-availability-api/internal/service"
	"github.com/noah-isme/mentor-availability-api/pkg/cache"
	"github.com/noah-isme/mentor-availability-api/pkg/config"
	"github.com/noah-isme/mentor-availability-api/pkg/database"
	"github.com/noah-isme/mentor-availability-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentor-availability-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentor-availability-api/pkg/middleware/requestid"
)

// @title Mentor Availability API
// @version 1.0.0
// @description Weekly availability editing, slot materialization and booking for mentors.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type handlers struct {
	templates *handler.TemplateHandler
	sessions  *handler.SessionHandler
	slots     *handler.SlotHandler
	pricing   *handler.PricingHandler
	bookings  *handler.BookingHandler
	metrics   *handler.MetricsHandler
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	templateRepo := repository.NewTemplateRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.SlotCache.TTL, logr, cfg.SlotCache.Enabled)
	settings := service.NewEngineSettings(cfg.Availability)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)

	templateSvc := service.NewTemplateService(templateRepo, pricingRepo, cacheSvc, metricsSvc, settings, validate, logr)
	pricingSvc := service.NewPricingService(pricingRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(templateRepo, pricingRepo, sessionRepo, cacheSvc, metricsSvc, settings, validate, logr)
	slotSvc := service.NewSlotService(templateRepo, bookingRepo, cacheSvc, metricsSvc, settings, validate, logr)
	bookingSvc := service.NewBookingService(slotSvc, bookingRepo, cacheSvc, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(slotSvc, cfg.Exports.SlotsEnabled, logr, nil, nil)

	h := handlers{
		templates: handler.NewTemplateHandler(templateSvc),
		sessions:  handler.NewSessionHandler(availabilitySvc),
		slots:     handler.NewSlotHandler(slotSvc, exportSvc),
		pricing:   handler.NewPricingHandler(pricingSvc),
		bookings:  handler.NewBookingHandler(bookingSvc),
		metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"postgres": db,
			"redis":    redisPinger{client: redisClient},
		}),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), h, tokenSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}

func registerRoutes(api *gin.RouterGroup, h handlers, tokens internalmiddleware.TokenValidator) {
	owner := []gin.HandlerFunc{
		internalmiddleware.JWT(tokens),
		internalmiddleware.RBAC(string(models.RoleAdmin), internalmiddleware.AllowSelf),
	}

	mentor := api.Group("/mentors/:id")

	// Public reads.
	mentor.GET("/slots", h.slots.List)
	mentor.GET("/slots/export", h.slots.Export)
	mentor.GET("/pricing", h.pricing.Get)

	mentor.POST("/bookings", internalmiddleware.JWT(tokens), h.bookings.Create)

	owned := mentor.Group("", owner...)
	owned.PUT("/pricing", h.pricing.Replace)

	owned.GET("/templates", h.templates.List)
	owned.POST("/templates", h.templates.Create)
	owned.PUT("/templates/:templateId", h.templates.Update)
	owned.DELETE("/templates/:templateId", h.templates.Delete)

	session := owned.Group("/availability/session")
	session.POST("", h.sessions.Open)
	session.GET("", h.sessions.Get)
	session.POST("/save", h.sessions.Save)
	session.PATCH("/days/:day", h.sessions.ToggleDay)
	session.POST("/days/:day/slots", h.sessions.AddSlot)
	session.PATCH("/days/:day/slots/:index", h.sessions.UpdateSlot)
	session.DELETE("/days/:day/slots/:index", h.sessions.RemoveSlot)
}
