package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latchkeyrecords/preorder-gen/app/api"
	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/cfg"
	"github.com/latchkeyrecords/preorder-gen/app/database"
	"github.com/latchkeyrecords/preorder-gen/app/fetch"
	"github.com/latchkeyrecords/preorder-gen/app/rules"
	"github.com/latchkeyrecords/preorder-gen/app/transform"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting preorder generator", "version", appCfg.Version)

	productRules, err := rules.Load(appCfg.RulesFile)
	if err != nil {
		slog.Error("Failed to load rules", "file", appCfg.RulesFile, "error", err)
		os.Exit(1)
	}

	var runRepo *database.RunRepository
	if appCfg.DBPath != "" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open run-history database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Debug("Database migrations applied", "version", version, "dirty", dirty)

		runRepo = database.NewRunRepository(db)
	}

	var fetcher *fetch.Fetcher
	if appCfg.FTPHost != "" {
		fetcher = fetch.NewFetcher(appCfg.FTPHost, appCfg.FTPUser, appCfg.FTPPassword,
			appCfg.FTPDir, appCfg.FTPFile, time.Duration(appCfg.FetchTimeout)*time.Second)
	}

	pipeline := transform.NewPipeline(productRules, appCfg.BatchSize)

	if appCfg.Serve {
		runServer(appCfg, pipeline, fetcher, runRepo)
		return
	}

	if err := runOnce(appCfg, pipeline, fetcher, runRepo); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

// runOnce performs a single transformation and writes the import CSV
// to the output directory.
func runOnce(appCfg *cfg.Cfg, pipeline *transform.Pipeline,
	fetcher *fetch.Fetcher, runRepo *database.RunRepository) error {

	target, err := resolveTargetDate(appCfg.TargetDate)
	if err != nil {
		return err
	}
	slog.Info("Target release date", "date", target.Format("2006-01-02"))

	for _, warning := range catalog.ValidateTargetDate(target, time.Now()) {
		slog.Warn("Target date validation", "warning", warning)
	}

	path := appCfg.InputFile
	sourceName := path
	if path == "" {
		if fetcher == nil {
			return fmt.Errorf("no catalog source: set --file or configure FTP credentials")
		}
		slog.Info("Fetching catalog", "host", appCfg.FTPHost, "file", appCfg.FTPFile)
		fetched, cleanup, err := fetcher.Run(context.Background())
		if err != nil {
			return fmt.Errorf("failed to fetch catalog: %w", err)
		}
		defer cleanup()
		path = fetched
		sourceName = appCfg.FTPFile
	}

	result, err := pipeline.Run(path, target)
	if err != nil {
		return err
	}

	outputPath, err := transform.WriteFile(appCfg.OutputDir, target, result.Products)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	slog.Info("Wrote import file", "path", outputPath, "products", len(result.Products))

	if runRepo != nil {
		recordRun(runRepo, result, sourceName, transform.OutputFileName(target))
	}

	return nil
}

func resolveTargetDate(value string) (time.Time, error) {
	if value == "" {
		target := catalog.DefaultTargetDate(time.Now())
		slog.Info("No target date given, using the 4th upcoming Friday")
		return target, nil
	}
	return catalog.ParseTargetDate(value)
}

func recordRun(runRepo *database.RunRepository, result *transform.Result,
	sourceName, outputFile string) {

	stats := result.Stats
	run := database.Run{
		TargetDate:     result.Target.Format("2006-01-02"),
		SourceFile:     sourceName,
		OutputFile:     outputFile,
		Processed:      stats.Processed,
		DateMatches:    stats.DateMatches,
		VinylMatches:   stats.VinylMatches,
		SkippedMissing: stats.Skipped[transform.SkipMissingFields],
		SkippedDate:    stats.Skipped[transform.SkipDateMismatch],
		SkippedFormat:  stats.Skipped[transform.SkipFormatMismatch],
		SkippedPrice:   stats.Skipped[transform.SkipNoPrice],
		ParseErrors:    stats.ParseErrors,
		Products:       stats.Products,
		DurationMS:     result.Duration.Milliseconds(),
	}

	if _, err := runRepo.RecordRun(run); err != nil {
		slog.Warn("Failed to record run", "error", err)
	}
}

func runServer(appCfg *cfg.Cfg, pipeline *transform.Pipeline,
	fetcher *fetch.Fetcher, runRepo *database.RunRepository) {

	handler := api.NewHandler(pipeline, fetcher, runRepo, appCfg.InputFile, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "auth", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
