package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jexpert/profile-enrichment/config"
	v1 "github.com/jexpert/profile-enrichment/internal/delivery/http/v1"
	"github.com/jexpert/profile-enrichment/internal/health"
	"github.com/jexpert/profile-enrichment/internal/llm"
	"github.com/jexpert/profile-enrichment/internal/orchestrator"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
	"github.com/jexpert/profile-enrichment/internal/repository/postgres"
	"github.com/jexpert/profile-enrichment/internal/scoring"
	"github.com/jexpert/profile-enrichment/internal/tracker"
	"github.com/jexpert/profile-enrichment/internal/workflow"
	"github.com/jexpert/profile-enrichment/pkg/database"
	"github.com/jexpert/profile-enrichment/pkg/logger"
	"github.com/jexpert/profile-enrichment/pkg/redis"
	"github.com/jexpert/profile-enrichment/pkg/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Init()
	logger.Log.Info("initializing profile enrichment service...")

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisCfg := redis.Config{
		URL:      cfg.RedisURL,
		Password: cfg.RedisPassword,
	}
	if err := redis.Initialize(redisCfg); err != nil {
		logger.Log.Warn("redis initialization failed - rate limiting will fall back to in-memory", "error", err)
	} else {
		logger.Log.Info("redis initialized successfully")
		defer redis.Close()
	}

	profileRepo := postgres.NewProfileRepository(dbPool)
	organizationRepo := postgres.NewOrganizationRepository(dbPool)
	edgeRepo := postgres.NewEdgeRepository(dbPool)
	scoringJobRepo := postgres.NewScoringJobRepository(dbPool)
	templateRepo := postgres.NewTemplateRepository(dbPool)

	workflowClient := workflow.New(workflow.Config{
		ProfileURL:      cfg.ProfileWorkflowURL,
		OrganizationURL: cfg.OrganizationWorkflowURL,
		APIKey:          cfg.WorkflowAPIKey,
		RequestTimeout:  cfg.WorkflowRequestTimeout,
		MaxRetries:      cfg.WorkflowMaxRetries,
		PacingInterval:  cfg.WorkflowPacingInterval,
	})

	orgService := orgsvc.NewService(organizationRepo, edgeRepo)
	ingestionTracker := tracker.New(tracker.DefaultTTL)
	orch := orchestrator.New(workflowClient, orgService, profileRepo, ingestionTracker)

	llmClient, err := llm.New(llm.Config{APIKey: cfg.AnthropicAPIKey, Timeout: scoring.DefaultLLMTimeout})
	if err != nil {
		logger.Log.Error("failed to initialize llm client", "error", err)
		os.Exit(1)
	}

	scoringEngine := scoring.NewEngine(scoringJobRepo, profileRepo, edgeRepo, organizationRepo, templateRepo, llmClient)
	workerPool := scoring.NewWorkerPool(scoringEngine, cfg.WorkerPoolSize)

	healthValidator := health.New(workflowClient, cfg.HealthTestProfileURL, cfg.HealthTestOrganizationURL)

	router := v1.NewRouter(v1.RouterDeps{
		Config:        cfg,
		Orchestrator:  orch,
		Health:        healthValidator,
		Tracker:       ingestionTracker,
		ScoringEngine: scoringEngine,
		WorkerPool:    workerPool,
		Profiles:      profileRepo,
		Organizations: organizationRepo,
		Edges:         edgeRepo,
		ScoringJobs:   scoringJobRepo,
		Templates:     templateRepo,
	})

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	workerDone := make(chan struct{})
	retentionDone := make(chan struct{})
	trackerDone := make(chan struct{})

	go workerPool.Run(bgCtx, scoringJobRepo, workerDone)
	go scoring.RunRetentionSweep(bgCtx, scoringJobRepo, scoring.DefaultRetentionWindow, retentionDone)
	go ingestionTracker.Run(trackerDone)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("server is running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server...")

	close(workerDone)
	close(retentionDone)
	close(trackerDone)
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server forced to shutdown", "error", err)
	}

	logger.Log.Info("server exited properly")
}
