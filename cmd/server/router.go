package main

import (
	"context"
	"fmt"

	"repoproxy/internal/application/service"
	"repoproxy/internal/config"
	"repoproxy/internal/domain/events"
	"repoproxy/internal/domain/repo"
	"repoproxy/internal/github"
	infraGitHub "repoproxy/internal/infrastructure/github"
	"repoproxy/internal/instrumentation"
	"repoproxy/internal/middleware"
	"repoproxy/internal/presentation/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// buildRouter wires every layer for cfg and returns the HTTP handler
func buildRouter(cfg *config.Config) (*gin.Engine, error) {
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())

	// Domain events
	dispatcher := events.NewDispatcher()
	dispatcher.Register(repo.EventTypeEnrichmentSkipped, func(ctx context.Context, event events.DomainEvent) error {
		metrics.EnrichmentSkippedTotal.Inc()
		return nil
	})

	// Infrastructure layer
	githubClient, err := github.NewClient(&cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}
	githubService := infraGitHub.NewGitHubService(githubClient, metrics)

	// Application layer
	repositoryService := service.NewRepositoryService(githubService, dispatcher, cfg.Search)

	// Presentation layer
	healthHandler := handlers.NewHealthHandler(version)
	repositoryHandler := handlers.NewRepositoryHandler(repositoryService)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.AccessLog())
	router.Use(middleware.Metrics(metrics))

	router.GET("/health", healthHandler.Health)

	router.GET("/search", repositoryHandler.SearchRepositories)
	router.GET("/repo", repositoryHandler.GetRepository)
	router.POST("/repo", repositoryHandler.GetRepository)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router, nil
}
