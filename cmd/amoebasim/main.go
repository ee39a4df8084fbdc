// Command amoebasim runs the amoeba lifecycle simulation, either as an HTTP
// service or as a one-shot headless run writing CSV and PNG reports.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/amoebasim/internal/api"
	"github.com/talgya/amoebasim/internal/config"
	"github.com/talgya/amoebasim/internal/persistence"
	"github.com/talgya/amoebasim/internal/report"
	"github.com/talgya/amoebasim/internal/sim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		configPath = flag.String("config", "", "path to YAML config (optional)")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		seed       = flag.Int64("seed", 42, "random seed")
		month      = flag.Int("month", 1, "starting month for headless mode (1-12)")
		steps      = flag.Int("steps", 0, "headless mode: run this many steps and exit")
		outDir     = flag.String("out", "", "output directory (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	model := sim.New(cfg.Params(), *seed)

	if *steps > 0 {
		if err := runHeadless(cfg, model, *month, *steps); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Database.Path)

	// ── HTTP API ──────────────────────────────────────────────────────
	server := api.NewServer(cfg.Server.Addr, model, *seed, db)
	server.Start()

	fmt.Printf("amoebasim listening on %s\n", cfg.Server.Addr)
	fmt.Printf("POST /api/v1/init {\"month\":1} to begin, then POST /api/v1/run {\"steps\":10}\n")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

// runHeadless runs the model once and writes rows.csv, environment.png, and
// grid.png into the output directory.
func runHeadless(cfg *config.Config, model *sim.Model, month, steps int) error {
	if err := model.Initialize(month); err != nil {
		return err
	}
	rows, err := model.Run(steps)
	if err != nil {
		return err
	}

	out, err := report.NewOutput(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.AppendRows(rows); err != nil {
		return err
	}
	if err := out.WriteChart(rows); err != nil {
		slog.Warn("chart not written", "error", err)
	}
	if err := out.WriteSnapshot(model.Snapshot()); err != nil {
		slog.Warn("snapshot not written", "error", err)
	}

	summary := report.Summarize(rows)
	slog.Info("run complete",
		"steps", summary.Steps,
		"final_population", summary.FinalPopulation,
		"peak_population", summary.PeakPopulation,
		"mean_population", fmt.Sprintf("%.2f", summary.MeanPopulation),
		"divisions", summary.TotalDivisions,
		"out", out.Dir(),
	)
	return nil
}
