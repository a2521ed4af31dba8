package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	appbodyscan "github.com/bryanwahyu/vital360/internal/application/bodyscan"
	"github.com/bryanwahyu/vital360/internal/application/insight"
	"github.com/bryanwahyu/vital360/internal/application/scanner"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/application/voicelog"
	"github.com/bryanwahyu/vital360/internal/config"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/infra/ai/openai"
	"github.com/bryanwahyu/vital360/internal/infra/db"
	"github.com/bryanwahyu/vital360/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/vital360/internal/infra/storage"
	"github.com/bryanwahyu/vital360/internal/logger"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("config load error", "err", err)
		os.Exit(1)
	}
	logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkers := map[string]middleware.HealthChecker{}

	// audit store opsional
	auditRepo, auditDB, err := db.OpenAudit(ctx, cfg)
	if err != nil {
		slog.Error("audit store init error", "driver", cfg.Audit.Driver, "err", err)
		os.Exit(1)
	}
	if auditDB != nil {
		defer auditDB.Close()
		checkers["audit"] = &middleware.DatabaseHealthChecker{DB: auditDB}
	}

	// init minio kalau arsip diaktifkan
	var archive voicelog.Archive
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			slog.Error("minio init error", "err", err)
			os.Exit(1)
		}
		archive = store
		checkers["archive"] = middleware.CheckFunc(store.Check)
	}

	clock := application.SystemClock{Loc: cfg.Location()}

	client := openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, nil)
	client.Model = cfg.AI.Models.Diagnosis

	// speech-to-text punya endpoint sendiri
	var transcriber ai.Transcriber
	if cfg.TranscriptionEnabled() {
		transcriber = openai.NewTranscriber(cfg.AI.Transcription.APIKey, cfg.AI.Transcription.BaseURL, cfg.AI.Models.Transcription, nil)
	} else {
		slog.Warn("voice log disabled: set ai.transcription.apiKey or OPENAI_API_KEY")
	}
	gateway := appai.NewService(client, transcriber, auditRepo, cfg.AI.Timeout, clock)

	visits := visit.NewRegistry(clock, cfg.Session.IdleTTL, cfg.Session.HistoryBound)
	go visits.Run(ctx, time.Minute)
	middleware.SetLiveVisits(visits.Len)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer limiter.Close()

	// init router
	handler := httpserver.NewRouter(httpserver.Deps{
		Visits:         visits,
		BodyScan:       &appbodyscan.Service{Gateway: gateway, Clock: clock, Model: cfg.AI.Models.Diagnosis},
		Scanner:        &scanner.Service{Gateway: gateway, Clock: clock, Model: cfg.AI.Models.Summary},
		VoiceLog:       &voicelog.Service{Gateway: gateway, Archive: archive, Clock: clock, Model: cfg.AI.Models.Scribe},
		Insight:        &insight.Service{Gateway: gateway, Model: cfg.AI.Models.Insight},
		AI:             gateway,
		Clock:          clock,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Limiter:        limiter,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		slog.Info("server listening", "addr", addr, "audit", cfg.Audit.Driver, "archive", cfg.Archive.Enabled, "transcription", cfg.TranscriptionEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	slog.Info("shutting down server...")
	middleware.SetDraining(true)

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}
