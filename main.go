package main

import (
	"context"
	"log"

	"github.com/brightdesk/portal/config"
	"github.com/brightdesk/portal/internal/agent"
	"github.com/brightdesk/portal/internal/handler"
	"github.com/brightdesk/portal/internal/llm"
	"github.com/brightdesk/portal/internal/middleware"
	"github.com/brightdesk/portal/internal/repository"
	"github.com/brightdesk/portal/internal/service"
	"github.com/brightdesk/portal/pkg/cache"
	"github.com/brightdesk/portal/pkg/database"
	"github.com/brightdesk/portal/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())
	redisClient := cache.NewRedisClient(cfg.RedisURL)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	postRepo := repository.NewPostRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	taxRepo := repository.NewTaxonomyRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	// External LLM provider; optional, everything degrades without it
	var llmClient *llm.Client
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTemperature)
	}

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL)
	eventSvc := service.NewEventService(eventRepo)
	rsvpSvc := service.NewRSVPService(regRepo, eventRepo, userRepo, publisher)
	newsSvc := service.NewNewsService(postRepo, publisher)
	teamSvc := service.NewTeamService(teamRepo)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, userRepo, llmClient)
	adminSvc := service.NewAdminService(userRepo, taxRepo, kpiRepo, cfg.BcryptCost)

	var newsAgent *agent.NewsAgent
	if cfg.NewsFeedURL != "" {
		newsAgent = agent.NewNewsAgent(redisClient, llmClient, newsSvc, postRepo, cfg.NewsFeedURL)
		if cfg.AgentInterval > 0 {
			newsAgent.Start(context.Background(), cfg.AgentInterval)
		}
	}

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(middleware.Metrics())

	e.GET("/health", func(c echo.Context) error {
		status := map[string]string{"status": "ok", "service": "portal"}
		if err := cache.HealthCheck(redisClient); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
		}
		return c.JSON(200, status)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.NewAuthHandler(authSvc).RegisterRoutes(e)

	authed := middleware.Auth(authSvc)
	api := e.Group("/api/v1", authed)
	admin := api.Group("/admin", middleware.RequireAdmin())

	events := api.Group("/events")
	handler.NewEventHandler(eventSvc).RegisterRoutes(events, admin)
	handler.NewRSVPHandler(rsvpSvc).RegisterRoutes(events, admin)
	handler.NewPostHandler(newsSvc).RegisterRoutes(api.Group("/posts"))
	handler.NewTeamHandler(teamSvc).RegisterRoutes(api.Group("/teams"), admin)
	handler.NewFeedbackHandler(feedbackSvc).RegisterRoutes(admin)
	handler.NewAdminHandler(adminSvc, newsAgent).RegisterRoutes(admin)

	log.Printf("Portal starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
