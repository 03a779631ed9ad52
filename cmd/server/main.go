package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bed-management-backend/internal/aiclient"
	"bed-management-backend/internal/config"
	"bed-management-backend/internal/database"
	"bed-management-backend/internal/handler"
	"bed-management-backend/internal/logger"
	"bed-management-backend/internal/middleware"
	"bed-management-backend/internal/repository"
	"bed-management-backend/internal/service"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "bed-management-backend"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bed-server",
		Short: "Hospital bed management API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the AI run worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer log.Sync()

			db, err := database.Connect(cfg, log)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info("Database migrated")
			return nil
		},
	}
}

func runServer() error {
	// 1. Load configuration
	cfg := config.LoadConfig()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()
	log.Info("Configuration loaded successfully")

	// 2. Initialize database connection
	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}

	// 3. Initialize repositories
	patientRepo := repository.NewPatientRepo(db)
	admissionRepo := repository.NewAdmissionRepo(db)
	bedRepo := repository.NewBedRepo(db)
	sectorRepo := repository.NewSectorRepo(db)
	priorityRepo := repository.NewPriorityRepo(db)
	aiRunRepo := repository.NewAIRunRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 4. Initialize services
	scorer := aiclient.NewClient(cfg.AI, log)
	recommendationService := service.NewRecommendationService(priorityRepo, patientRepo, admissionRepo, bedRepo, log)
	assignmentService := service.NewAssignmentService(admissionRepo, recommendationService, auditRepo, log)
	aiService := service.NewAIService(scorer, aiRunRepo, priorityRepo, auditRepo, log)
	intakeService := service.NewIntakeService(admissionRepo, patientRepo, auditRepo, log)
	dashboardService := service.NewDashboardService(bedRepo, sectorRepo, admissionRepo)
	exportService := service.NewExportService(dashboardService)
	workerService := service.NewWorkerService(aiService, cfg.AI.PollInterval, cfg.AI.RunTimeout, log)

	// 5. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go workerService.Start(ctx)

	// 6. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(cfg),
	)

	// 7. Register handlers
	recommendationHandler := handler.NewRecommendationHandler(recommendationService, assignmentService)
	aiHandler := handler.NewAIHandler(aiService)
	intakeHandler := handler.NewIntakeHandler(intakeService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, exportService)

	// 8. Define routes
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/recommendations", recommendationHandler.GetRecommendations)
		api.POST("/assignments", recommendationHandler.AssignBed)

		ai := api.Group("/ai/runs")
		ai.POST("", aiHandler.TriggerRun)
		ai.GET("/:id", aiHandler.GetRun)
		ai.POST("/:id/complete", aiHandler.CompleteRun)

		api.GET("/patients", dashboardHandler.GetAdmittedPatients)
		api.GET("/patients/export", dashboardHandler.ExportAdmittedPatients)
		api.GET("/patients/dni/:dni", intakeHandler.LookupPatient)
		api.GET("/dashboard/metrics", dashboardHandler.GetMetrics)
		api.GET("/dashboard/sectors", dashboardHandler.GetSectorOccupancy)
		api.GET("/sectors", dashboardHandler.GetSectors)

		api.POST("/intake", intakeHandler.Admit)
		sessions := api.Group("/intake/sessions")
		sessions.POST("", intakeHandler.StartSession)
		sessions.GET("/:id", intakeHandler.GetSession)
		sessions.DELETE("/:id", intakeHandler.DiscardSession)
		sessions.PUT("/:id/identity", intakeHandler.SaveIdentity)
		sessions.PUT("/:id/admission", intakeHandler.SaveAdmission)
		sessions.POST("/:id/submit", intakeHandler.Submit)
	}

	// 9. Serve with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Shutting down server...")
	case err := <-serverErr:
		cancel()
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Stop the worker before draining requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server exited")
	return nil
}
