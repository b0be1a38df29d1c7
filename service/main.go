package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/martinozimek/india-etf/service/config"
	c "github.com/martinozimek/india-etf/service/core"
	"github.com/martinozimek/india-etf/service/export"
	"github.com/martinozimek/india-etf/service/logging"
	sm "github.com/martinozimek/india-etf/service/models"
	"github.com/martinozimek/india-etf/service/render"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load in environment variables from .env file, a missing file is fine
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	parseFlags(cfg)

	log := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)
	if envErr != nil {
		log.Debug(".env not loaded", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	sources, err := cfg.Sources()
	if err != nil {
		log.Error("Failed to list etfs", "error", err)
		os.Exit(1)
	}
	log.Info("Starting report", "etfs", len(sources), "gdp", cfg.GdpPath, "output", cfg.OutputDir)

	rc := c.ReportContext{
		Context:  ctx,
		Logger:   log,
		Settings: cfg.Settings(),
	}

	report, err := rc.RunReport(cfg.GdpPath, sources)
	if err != nil {
		log.Error("Report failed", "error", err)
		os.Exit(1)
	}

	if err := writeOutputs(cfg, report, log); err != nil {
		log.Error("Failed to write report outputs", "error", err)
		os.Exit(1)
	}

	if err := render.WriteSummaryTable(os.Stdout, report); err != nil {
		log.Error("Failed to print summary", "error", err)
		os.Exit(1)
	}
}

// parseFlags lets the command line override anything loaded from the environment
func parseFlags(cfg *config.Config) {
	flag.StringVar(&cfg.EtfDir, "etf-dir", cfg.EtfDir, "directory scanned for *_daily.csv etf exports")
	flag.StringVar(&cfg.EtfList, "etf-list", cfg.EtfList, "yaml file listing the etfs, overrides -etf-dir discovery")
	flag.StringVar(&cfg.GdpPath, "gdp", cfg.GdpPath, "quarterly gdp csv with Date and GDP_USD columns")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory charts, workbook and series are written to")
	flag.StringVar(&cfg.ExportFormat, "format", cfg.ExportFormat, fmt.Sprintf("series export format %v", export.Formats))
	flag.IntVar(&cfg.RollingWindow, "window", cfg.RollingWindow, "rolling correlation window in quarters")
	flag.IntVar(&cfg.MinOverlap, "min-overlap", cfg.MinOverlap, "fewest aligned quarters before an etf is analyzed")
	flag.IntVar(&cfg.EtfSkipRows, "skip-rows", cfg.EtfSkipRows, "metadata rows under the header of each etf export")
	flag.IntVar(&cfg.Permutations, "permutations", cfg.Permutations, "shuffles per permutation test, 0 turns it off")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "permutation test seed")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.BoolVar(&cfg.RenderCharts, "charts", cfg.RenderCharts, "render png charts")
	flag.Parse()
}

func writeOutputs(cfg *config.Config, report *sm.Report, log *slog.Logger) error {
	start := time.Now()
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("error creating %s: %w", cfg.OutputDir, err)
	}

	if cfg.RenderCharts {
		chartDir := filepath.Join(cfg.OutputDir, "charts")
		for _, a := range report.Analyses {
			if _, err := render.RenderEtfCharts(chartDir, a, report.Settings.RollingWindow); err != nil {
				log.Warn("Failed to render charts", "etf", a.Summary.Etf, "error", err)
			}
		}

		if _, err := render.RenderSummaryChart(chartDir, report.Summaries); err != nil {
			return err
		}
	}

	workbook := filepath.Join(cfg.OutputDir, render.WorkbookName)
	if err := render.WriteSummaryWorkbook(workbook, report); err != nil {
		return fmt.Errorf("error writing %s: %w", workbook, err)
	}

	saver := export.NewSeriesSaver(cfg.ExportFormat)
	paths, err := export.SaveAnalyses(saver, filepath.Join(cfg.OutputDir, "series"), report.Analyses)
	if err != nil {
		return err
	}

	log.Info("Wrote report outputs", "workbook", workbook, "series", len(paths), "format", saver.Extension(), "time", time.Since(start))
	return nil
}
