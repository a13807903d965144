package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/badgerous/hashbench/config"
	"github.com/badgerous/hashbench/digest"
	"github.com/badgerous/hashbench/harness"
	"github.com/badgerous/hashbench/logging"
)

// Hashbench binary version.
// It should be passed during the build with '-ldflags "-X main.version="'.
var version = "unknown"

// hashbenchMain is the true entry point for hashbench. This function is
// required since defers created in the top-level scope of a main method
// aren't executed if os.Exit() is called.
func hashbenchMain() error {
	var err error
	// Start with a default Config with sane settings
	cfg := config.DefaultConfig()
	// Pre-parse the command line to check for an alternative Config file
	cfg, err = config.ParseFlags(cfg)
	if err != nil {
		return err
	}
	// Load configuration file overwriting defaults with any specified options
	cfg, err = config.ReadConfigFile(cfg)
	if err != nil {
		return err
	}
	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	cfg, err = config.ParseFlags(cfg)
	if err != nil {
		return err
	}
	cfg, err = config.SetupConfig(cfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logging
	logLevel := zap.InfoLevel
	if cfg.DebugLog {
		logLevel = zap.DebugLevel
	}
	logger := logging.New(logging.Options{
		Level:       logLevel,
		JSON:        cfg.JSONLog,
		File:        cfg.LogFile(),
		MaxFileSize: cfg.MaxLogFileSize,
		MaxFiles:    cfg.MaxLogFiles,
	})
	if cfg.ForkResult != "" {
		logger = logger.With(zap.Int("pid", os.Getpid()))
	}
	ctx := logging.NewContext(context.Background(), logger)

	registry := digest.Default()
	defer func() {
		if err := registry.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("failed to release digest providers")
		}
	}()

	if cfg.List {
		for _, k := range registry.Keys(digest.MD5) {
			fmt.Println(k)
		}
		return nil
	}

	runner, err := harness.NewRunner(cfg.HarnessConfig(), cfg.WorkloadConfig(), registry, cfg.Providers)
	if err != nil {
		return fmt.Errorf("setting up benchmark: %w", err)
	}

	// Profile the process that does the measuring: the child when forking.
	if cfg.CPUProfile != "" && (cfg.ForkResult != "" || cfg.Bench.Forks == 0) {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if cfg.ForkResult != "" {
		res, err := runner.Trial(ctx)
		if err != nil {
			return err
		}
		return harness.WriteResult(cfg.ForkResult, res)
	}

	logger.Sugar().Infof("hashbench %s: %d provider(s), %d fork(s)", version, len(runner.Targets()), cfg.Bench.Forks)

	var eg errgroup.Group
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var srv *http.Server
	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: cfg.MetricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		eg.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", cfg.MetricsListen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cancel()
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
	}

	eg.Go(func() error {
		if srv != nil {
			defer srv.Shutdown(context.Background())
		}
		report, err := runner.Run(runCtx)
		if err != nil {
			return err
		}
		_, err = report.WriteTo(os.Stdout)
		return err
	})

	return eg.Wait()
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := hashbenchMain(); err != nil {
		// If it's the flag utility error don't print it,
		// because it was already printed.
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
