package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"solarwatch/internal/anomaly"
	"solarwatch/internal/cache"
	"solarwatch/internal/config"
	cronrunner "solarwatch/internal/cron"
	"solarwatch/internal/db"
	"solarwatch/internal/handler"
	"solarwatch/internal/logger"
	gormrepository "solarwatch/internal/repository/gorm"
	"solarwatch/internal/service"
	"solarwatch/internal/telemetry"

	_ "solarwatch/docs"
)

func main() {
	cfgPath := os.Getenv("SW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SW_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := gormrepository.New(dbConn.Gorm).WithBatchSize(cfg.Anomaly.BatchSize)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(ctx); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	reportCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	if closer, ok := reportCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	reportStore := &service.SweepReportStore{Cache: reportCache, TTL: cfg.Cache.ReportTTL}

	telemetryClient := initTelemetry(cfg.Telemetry, logger)
	reporters := anomaly.MultiReporter{anomaly.LogReporter{Logger: logger}, reportStore}
	if telemetryClient != nil {
		reporters = append(reporters, telemetryClient)
	}

	runner := &anomaly.FleetRunner{
		Units: store,
		Scanner: &anomaly.Scanner{
			Records:   store,
			Anomalies: store,
			Evaluator: anomaly.NewEvaluator(anomaly.Thresholds{
				NightEnergyKWh:     cfg.Anomaly.NightEnergyKWh,
				PeakZeroEnergyKWh:  cfg.Anomaly.PeakZeroEnergyKWh,
				DropRatio:          cfg.Anomaly.DropRatio,
				DropMinPreviousKWh: cfg.Anomaly.DropMinPreviousKWh,
				ClippingCapKWh:     cfg.Anomaly.ClippingCapKWh,
			}),
			Logger: logger,
		},
		Reporter: reporters,
		Logger:   logger,
		Workers:  cfg.Anomaly.Workers,
	}
	detectionSvc := &service.DetectionService{Runner: runner, Flags: settingsSvc, Logger: logger}
	invoiceSvc := &service.InvoiceService{Repo: store, Flags: settingsSvc, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(telemetry.RequireBearerMiddleware(cfg.Server.AuthDisabled))
	engine.Use(telemetry.WriteAuditMiddleware(telemetryClient, logger))

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	anomalyHandler := &handler.AnomalyHandler{
		Repo:      store,
		Detection: detectionSvc,
		Reports:   reportStore,
		Logger:    logger,
	}
	anomalyHandler.Register(engine)
	unitHandler := &handler.SolarUnitHandler{Repo: store}
	unitHandler.Register(engine)
	recordHandler := &handler.EnergyRecordHandler{Repo: store}
	recordHandler.Register(engine)
	invoiceHandler := &handler.InvoiceHandler{Repo: store, Invoices: invoiceSvc}
	invoiceHandler.Register(engine)
	settingsHandler := &handler.SystemSettingsHandler{Settings: settingsSvc}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("anomaly_detection", cfg.Cron.AnomalyDetection, detectionSvc.RunScheduled); err != nil {
			logger.Warn("cron register anomaly detection failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("invoice_generation", cfg.Cron.InvoiceGeneration, invoiceSvc.RunScheduled); err != nil {
			logger.Warn("cron register invoice generation failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// initTelemetry returns nil when the platform is not configured or login fails.
func initTelemetry(cfg config.TelemetryConfig, logger *zap.Logger) *telemetry.Client {
	base := strings.TrimSpace(cfg.BaseURL)
	apiKey := strings.TrimSpace(cfg.APIKey)
	if base == "" || apiKey == "" {
		return nil
	}

	p := &telemetry.Client{
		BaseURL: base,
		APIKey:  apiKey,
		Agent:   cfg.Agent,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.Login(ctx); err != nil {
		logger.Warn("telemetry login failed (platform logging disabled)", zap.Error(err))
		return nil
	}
	logger.Info("telemetry login ok", zap.String("base_url", base))
	return p
}
