package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/database"
	"github.com/latchkeyrecords/preorder-gen/app/fetch"
	"github.com/latchkeyrecords/preorder-gen/app/transform"
)

// Handler serves the operator endpoints. The fetcher and run
// repository are optional: without FTP credentials only uploaded or
// local catalogs work, and without a database no history is kept.
type Handler struct {
	pipeline  *transform.Pipeline
	fetcher   *fetch.Fetcher
	runRepo   *database.RunRepository
	inputFile string
	version   string
}

func NewHandler(pipeline *transform.Pipeline, fetcher *fetch.Fetcher,
	runRepo *database.RunRepository, inputFile, version string) *Handler {
	return &Handler{
		pipeline:  pipeline,
		fetcher:   fetcher,
		runRepo:   runRepo,
		inputFile: inputFile,
		version:   version,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Generate runs the transformation for one target date and returns
// the import CSV as an attachment. The catalog comes from an uploaded
// file, the configured local file, or an FTP fetch, in that order.
func (h *Handler) Generate(c *gin.Context) {
	target, err := h.resolveTargetDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warnings := catalog.ValidateTargetDate(target, time.Now())
	for _, warning := range warnings {
		slog.Warn("Target date validation", "warning", warning)
	}

	path, sourceName, cleanup, err := h.resolveCatalog(c)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	result, err := h.pipeline.Run(path, target)
	if err != nil {
		slog.Error("Pipeline run failed", "source", sourceName, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	filename := transform.OutputFileName(target)
	h.recordRun(result, sourceName, filename)

	var buf bytes.Buffer
	if err := transform.WriteCSV(&buf, result.Products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := result.Stats
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Processed", strconv.Itoa(stats.Processed))
	c.Header("X-Products", strconv.Itoa(stats.Products))
	for _, warning := range warnings {
		c.Header("X-Date-Warning", warning)
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) ListRuns(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run history is disabled"})
		return
	}

	// A date filter returns every run recorded for that target Friday
	if value := c.Query("date"); value != "" {
		target, err := catalog.ParseTargetDate(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		runs, err := h.runRepo.GetRunsForDate(target.Format("2006-01-02"))
		if err != nil {
			slog.Error("Database error", "operation", "get_runs_for_date", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"runs": toRunResponses(runs)})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": toRunResponses(runs)})
}

// ListCatalogFiles lists the wholesaler's FTP directory, a diagnostic
// for locating the current catalog drop.
func (h *Handler) ListCatalogFiles(c *gin.Context) {
	if h.fetcher == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "FTP source is not configured"})
		return
	}

	files, err := h.fetcher.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *Handler) resolveTargetDate(c *gin.Context) (time.Time, error) {
	value := c.PostForm("date")
	if value == "" {
		value = c.Query("date")
	}
	if value == "" {
		return catalog.DefaultTargetDate(time.Now()), nil
	}
	return catalog.ParseTargetDate(value)
}

// resolveCatalog returns a local path to the catalog plus a cleanup
// func that is safe to call on every path.
func (h *Handler) resolveCatalog(c *gin.Context) (string, string, func(), error) {
	noop := func() {}

	if file, err := c.FormFile("catalog"); err == nil {
		path := filepath.Join(os.TempDir(),
			fmt.Sprintf("upload-%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
		if err := c.SaveUploadedFile(file, path); err != nil {
			return "", "", noop, fmt.Errorf("failed to save uploaded catalog: %w", err)
		}
		return path, file.Filename, func() { os.Remove(path) }, nil
	}

	if h.inputFile != "" {
		return h.inputFile, filepath.Base(h.inputFile), noop, nil
	}

	if h.fetcher != nil {
		path, cleanup, err := h.fetcher.Run(c.Request.Context())
		if err != nil {
			return "", "", noop, err
		}
		return path, filepath.Base(path), cleanup, nil
	}

	return "", "", noop, fmt.Errorf("no catalog source available: upload a file or configure --file or FTP credentials")
}

func (h *Handler) recordRun(result *transform.Result, sourceName, outputFile string) {
	if h.runRepo == nil {
		return
	}

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

	if _, err := h.runRepo.RecordRun(run); err != nil {
		slog.Error("Failed to record run", "error", err)
	}
}

type runResponse struct {
	ID           int64  `json:"id"`
	TargetDate   string `json:"target_date"`
	SourceFile   string `json:"source_file"`
	OutputFile   string `json:"output_file"`
	Processed    int    `json:"processed"`
	DateMatches  int    `json:"date_matches"`
	VinylMatches int    `json:"vinyl_matches"`
	Skipped      int    `json:"skipped"`
	ParseErrors  int    `json:"parse_errors"`
	Products     int    `json:"products"`
	DurationMS   int64  `json:"duration_ms"`
	CreatedAt    string `json:"created_at"`
}

func toRunResponses(runs []database.Run) []runResponse {
	responses := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, runResponse{
			ID:           run.ID,
			TargetDate:   run.TargetDate,
			SourceFile:   run.SourceFile,
			OutputFile:   run.OutputFile,
			Processed:    run.Processed,
			DateMatches:  run.DateMatches,
			VinylMatches: run.VinylMatches,
			Skipped:      run.SkippedMissing + run.SkippedDate + run.SkippedFormat + run.SkippedPrice,
			ParseErrors:  run.ParseErrors,
			Products:     run.Products,
			DurationMS:   run.DurationMS,
			CreatedAt:    run.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}
