package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/harpastum/internal/adapters/ingest"
	"github.com/okian/harpastum/internal/adapters/report"
	"github.com/okian/harpastum/internal/app"
	"github.com/okian/harpastum/internal/config"
	"github.com/okian/harpastum/internal/domain/markov"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// Metrics listener timeouts.
const (
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optional Prometheus exposition while the run is in flight.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
		go func() {
			log.Info(ctx, "serving metrics", logger.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(ctx, "metrics listener failed", logger.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	lineup, err := ingest.LoadLineup(ctx, cfg.LineupPath)
	if err != nil {
		log.Error(ctx, "loading lineup table failed", logger.Error(err))
		os.Exit(1)
	}

	loader := ingest.NewLoader(ingest.WithLogger(log.Named("ingest")))
	events, err := loader.LoadEvents(ctx, cfg.EventsPath, lineup)
	if err != nil {
		log.Error(ctx, "loading event table failed", logger.Error(err))
		os.Exit(1)
	}

	policy := markov.DanglingError
	if cfg.DanglingPolicy == config.DanglingExclude {
		policy = markov.DanglingExclude
	}

	svc := app.New(
		app.WithLogger(log.Named("analysis")),
		app.WithTeam(cfg.Team),
		app.WithWindow(cfg.Period, cfg.CutoffMinute),
		app.WithValidationCutoff(cfg.ValidationCutoffMinute),
		app.WithNSteps(cfg.NSteps),
		app.WithDanglingPolicy(policy),
		app.WithSimulation(cfg.SampleSize, cfg.Repetitions, cfg.Seed),
		app.WithWorkerCount(cfg.WorkerCount),
	)

	rep, err := svc.Run(ctx, events, lineup)
	if err != nil {
		// Halt the analysis and report the violated precondition rather
		// than emitting a partially valid table.
		log.Error(ctx, "analysis halted", logger.Error(err))
		os.Exit(1)
	}

	out := os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			log.Error(ctx, "opening output file failed", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := report.Render(out, rep); err != nil {
		log.Error(ctx, "rendering report failed", logger.Error(err))
		os.Exit(1)
	}
}
