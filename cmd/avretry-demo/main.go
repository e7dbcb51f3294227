// Package main is a demonstration driver for the avretry library. It
// loads a retry profile from a YAML file and pushes a deliberately flaky
// operation through the retrier. With -watch it keeps running and reruns
// the operation whenever the profile file changes on disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/avretry/internal/logging"
	"github.com/vyrodovalexey/avretry/internal/profile"
	"github.com/vyrodovalexey/avretry/retrier"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	profilePath   string
	profileName   string
	succeedAfter  int
	watch         bool
	writeDefaults bool
	logLevel      string
	logFormat     string
	showVersion   bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	if flags.writeDefaults {
		writeDefaultProfiles(flags, logger)
		return
	}

	if flags.watch {
		watchAndRun(flags, logger)
		return
	}

	p := loadProfile(flags, logger)
	if !runOnce(flags, p, logger) {
		os.Exit(1)
	}
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	profilePath := flag.String("profiles", getEnvOrDefault("AVRETRY_PROFILES_PATH", "configs/profiles.yaml"),
		"Path to the retry profiles file")
	profileName := flag.String("profile", getEnvOrDefault("AVRETRY_PROFILE", "default"),
		"Name of the retry profile to use")
	succeedAfter := flag.Int("succeed-after", 3,
		"Number of calls the demo operation fails before succeeding (0 = never succeeds)")
	watch := flag.Bool("watch", false,
		"Watch the profiles file and rerun the operation on every change")
	writeDefaults := flag.Bool("write-default-profiles", false,
		"Write a default profiles file to the -profiles path and exit")
	logLevel := flag.String("log-level", getEnvOrDefault("AVRETRY_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("AVRETRY_LOG_FORMAT", "console"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		profilePath:   *profilePath,
		profileName:   *profileName,
		succeedAfter:  *succeedAfter,
		watch:         *watch,
		writeDefaults: *writeDefaults,
		logLevel:      *logLevel,
		logFormat:     *logFormat,
		showVersion:   *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("avretry-demo version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) *zap.Logger {
	logger, err := logging.NewLogger(logging.Config{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// writeDefaultProfiles writes the built-in default profiles to disk.
func writeDefaultProfiles(flags cliFlags, logger *zap.Logger) {
	if err := profile.Save(profile.Default(), flags.profilePath); err != nil {
		logger.Fatal("failed to write default profiles",
			zap.String("path", flags.profilePath),
			zap.Error(err),
		)
	}
	logger.Info("wrote default profiles",
		zap.String("path", flags.profilePath),
	)
}

// loadProfile loads the requested retry profile.
func loadProfile(flags cliFlags, logger *zap.Logger) profile.Profile {
	logger.Info("starting avretry-demo",
		zap.String("version", version),
		zap.String("profiles", flags.profilePath),
		zap.String("profile", flags.profileName),
	)

	f, err := profile.Load(flags.profilePath)
	if err != nil {
		logger.Warn("falling back to built-in default profile",
			zap.Error(err),
		)
		f = profile.Default()
	}

	p, ok := f.Lookup(flags.profileName)
	if !ok {
		logger.Fatal("profile not found",
			zap.String("profile", flags.profileName),
		)
	}
	return p
}

// watchAndRun runs the operation once, then reruns it every time the
// profile file is reloaded, until interrupted.
func watchAndRun(flags cliFlags, logger *zap.Logger) {
	logger.Info("starting avretry-demo in watch mode",
		zap.String("version", version),
		zap.String("profiles", flags.profilePath),
		zap.String("profile", flags.profileName),
	)

	w, err := profile.NewWatcher(flags.profilePath, func(f *profile.File) {
		p, ok := f.Lookup(flags.profileName)
		if !ok {
			logger.Error("profile missing after reload",
				zap.String("profile", flags.profileName),
			)
			return
		}
		runOnce(flags, p, logger)
	}, profile.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create profile watcher", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		logger.Fatal("failed to start profile watcher", zap.Error(err))
	}
	defer func() { _ = w.Stop() }()

	p, ok := w.Last().Lookup(flags.profileName)
	if !ok {
		logger.Fatal("profile not found",
			zap.String("profile", flags.profileName),
		)
	}
	runOnce(flags, p, logger)

	<-ctx.Done()
	logger.Info("shutting down")
}

// runOnce drives the flaky operation through the retrier with the given
// profile and reports whether it succeeded.
func runOnce(flags cliFlags, p profile.Profile, logger *zap.Logger) bool {
	runID := uuid.NewString()
	runLogger := logger.With(
		zap.String("run_id", runID),
		zap.String("profile", p.Name),
	)

	calls := 0
	cfg := profile.Configure(p, retrier.Config[string, string]{
		Params: "demo-upstream",
		Work: func(target string) (string, error) {
			calls++
			if flags.succeedAfter <= 0 || calls < flags.succeedAfter {
				return "", fmt.Errorf("call %d to %s: %w", calls, target, errUpstreamFlaky)
			}
			return fmt.Sprintf("payload from %s on call %d", target, calls), nil
		},
		OnFailure: func(err error) {
			runLogger.Warn("demo attempt failed", zap.Error(err))
		},
		Logger: runLogger,
	})

	result, ok, err := retrier.Do(cfg)
	if err != nil {
		runLogger.Fatal("retrier misconfigured", zap.Error(err))
	}

	if ok {
		runLogger.Info("operation succeeded",
			zap.String("result", result),
			zap.Int("calls", calls),
		)
		return true
	}

	runLogger.Error("operation exhausted its attempt budget",
		zap.Int("attempts", p.EffectiveAttempts()),
		zap.Int("calls", calls),
	)
	return false
}

// errUpstreamFlaky simulates a transient upstream failure.
var errUpstreamFlaky = errors.New("upstream temporarily unavailable")

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
