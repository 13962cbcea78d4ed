package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	"hospitalcms/internal/adapters/api"
	emailPkg "hospitalcms/internal/adapters/email"
	web "hospitalcms/internal/adapters/http"
	"hospitalcms/internal/adapters/http/middleware"
	"hospitalcms/internal/adapters/http/perf"
	"hospitalcms/internal/adapters/storage"
	sessionStore "hospitalcms/internal/adapters/storage/session"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/config"
	"hospitalcms/internal/platform/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// sweepInterval is how often expired session values and idle visitors are dropped.
const sweepInterval = 10 * time.Minute

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger.Logger)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fatal("failed to open database", err)
	}
	defer db.Close()

	if err := storage.InitDB(db); err != nil {
		fatal("failed to initialize database", err)
	}

	// Performance instrumentation: request, upstream and query histograms
	metrics := perf.NewMetrics(prometheus.DefaultRegisterer)
	timedDB := storage.NewTimedDB(db, metrics, cfg.SlowQueryMs)

	sealer, err := sessionStore.NewSealer([]byte(cfg.SessionKey))
	if err != nil {
		fatal("failed to create session sealer", err)
	}
	sessions := sessionStore.NewSQLiteStore(timedDB, sealer)

	backend := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger, metrics)

	// Configure email sender
	var mailer emailPkg.Sender
	if cfg.ResendKey != "" {
		mailer = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		mailer = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender_configured", "provider", "noop", "warning", "HOSPITAL_RESEND_KEY is not set, welcome emails are disabled")
		} else {
			slog.Info("email_sender_configured", "provider", "noop")
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	stopCh := make(chan struct{})
	defer close(stopCh)
	sweepDeps := orchestrators.SweepSessionsDeps{Sessions: sessions, Visitors: limiter, TTL: cfg.SessionTTL}
	orchestrators.StartBackgroundWorker("sweep_sessions", sweepInterval, stopCh, func(ctx context.Context) error {
		return orchestrators.ExecuteSweepSessions(ctx, sweepDeps)
	})

	handler, err := web.NewMux(web.Deps{
		Backend:       backend,
		Sessions:      sessions,
		Mailer:        mailer,
		Metrics:       metrics,
		Gatherer:      prometheus.DefaultGatherer,
		CSRFKey:       []byte(cfg.CSRFKey),
		Secure:        cfg.IsProduction(),
		Limiter:       limiter,
		SlowRequestMs: cfg.SlowRequestMs,
	})
	if err != nil {
		fatal("failed to build handler", err)
	}

	slog.Info("server_starting",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"api", cfg.APIBaseURL,
		"schema", storage.LatestSchemaVersion(),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		fatal("server failed", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err.Error())
	os.Exit(1)
}
