package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/config"
	"github.com/mamadbah2/costeo/internal/repository/mongodb"
	"github.com/mamadbah2/costeo/internal/repository/sheets"
	"github.com/mamadbah2/costeo/internal/repository/sqlite"
	"github.com/mamadbah2/costeo/internal/scheduler"
	"github.com/mamadbah2/costeo/internal/server/handlers"
	"github.com/mamadbah2/costeo/internal/server/router"
	"github.com/mamadbah2/costeo/internal/service/costing"
	"github.com/mamadbah2/costeo/pkg/clients/backend"
	"github.com/mamadbah2/costeo/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	session := backend.Session{Token: cfg.CostingAPI.Token}
	if session.Token == "" {
		session, err = backend.Login(startupCtx, cfg.CostingAPI, cfg.CostingAPI.Username, cfg.CostingAPI.Password)
		if err != nil {
			baseLogger.Fatal("failed to log in to costing api", zap.Error(err))
		}
		baseLogger.Info("costing api session opened", zap.String("username", session.Username))
	}
	backendClient := backend.NewClient(cfg.CostingAPI, session)

	db, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		baseLogger.Fatal("failed to open sqlite database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		baseLogger.Fatal("failed to migrate sqlite database", zap.Error(err))
	}
	scenarioRepo := sqlite.NewScenarioRepository(db, logger.Named(baseLogger, "repo.sqlite"))

	var reports costing.ReportStore
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongo"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reports = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI missing, report storage disabled")
	}

	var sheetWriter costing.SheetWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetWriter = sheetsRepo
	} else {
		baseLogger.Warn("GOOGLE_SHEET_DATABASE_ID missing, sheet export disabled")
	}

	costingSvc := costing.NewService(
		backendClient,
		scenarioRepo,
		reports,
		sheetWriter,
		costing.Options{
			LaborFallbackToVolume: cfg.Allocation.LaborFallbackToVolume,
			SheetRange:            cfg.Sheets.Range,
		},
		logger.Named(baseLogger, "svc.costing"),
	)

	costingHandler := handlers.NewCostingHandler(costingSvc, logger.Named(baseLogger, "handlers.costing"))
	engine := router.New(costingHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, costingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
