package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/royalcat/hexcities/hexgrid"
	"github.com/royalcat/hexcities/internal/config"
	"github.com/royalcat/hexcities/internal/stats"
	"github.com/royalcat/hexcities/internal/telemetry"
	"github.com/royalcat/hexcities/pointexport"
	"github.com/urfave/cli/v3"
)

func ptr[T any](v T) *T {
	return &v
}

func generate(ctx *cli.Context) error {
	client, err := telemetry.Setup(ctx.Context, appName, ctx.String("telemetry.endpoint"))
	if err != nil {
		return fmt.Errorf("error setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Shutdown(sctx); err != nil {
			slog.Error("telemetry shutdown", "error", err)
		}
	}()

	file := config.DefaultFile()
	if name := ctx.String("config"); name != "" {
		file, err = config.LoadFile(name)
		if err != nil {
			return err
		}
	}
	applyFlags(ctx, &file)

	cfg, err := file.Resolve()
	if err != nil {
		return err
	}

	var report *stats.Report
	textfile := ctx.String("metrics.textfile")
	if textfile != "" {
		report, err = stats.NewReport(100 * time.Millisecond)
		if err != nil {
			return err
		}
		defer report.Finish()
	}

	res, err := runGenerate(ctx.Context, cfg, ctx.String("output"), ctx.Bool("progress"))
	if err != nil {
		return err
	}

	if report != nil {
		report.ObserveCities(res.Cities)
		report.SetRows(res.Rows)
		summary := report.Finish()
		slog.Debug("run resources",
			"peak_rss", humanize.IBytes(summary.PeakRSS),
			"peak_heap", humanize.IBytes(summary.PeakHeapAlloc),
		)

		if err := client.Flush(ctx.Context); err != nil {
			slog.Warn("telemetry flush", "error", err)
		}
		if err := report.WriteTextfile(textfile, client.Registry()); err != nil {
			return err
		}
	}

	return nil
}

// applyFlags overrides file values with the flags given on the command line.
func applyFlags(ctx *cli.Context, file *config.File) {
	if ctx.IsSet("side") {
		file.HexSide = ptr(ctx.Float64("side"))
	}
	if ctx.IsSet("radius") {
		file.Radius.Meters = ptr(ctx.Float64("radius"))
	}
	if ctx.IsSet("area-scale") {
		file.Radius.Scale = ptr(ctx.Float64("area-scale"))
	}
	if ctx.IsSet("radius-policy") {
		file.Radius.Policy = ptr(ctx.String("radius-policy"))
	}
	if ctx.IsSet("offset") {
		file.Offset = ptr(ctx.String("offset"))
	}
	if ctx.Bool("no-clip") {
		file.Clip = ptr(false)
	}
}

type generateResult struct {
	Hexagons int
	Rows     int
	Bytes    int64
	Cities   []hexgrid.CityStats
}

func runGenerate(ctx context.Context, cfg config.Config, output string, progress bool) (generateResult, error) {
	log := slog.Default().With("output", output)

	builder, err := hexgrid.NewBuilder(cfg.Grid, hexgrid.WithProgress(progress))
	if err != nil {
		return generateResult{}, err
	}

	start := time.Now()
	hexes, err := builder.Build(ctx, cfg.Cities)
	if err != nil {
		return generateResult{}, fmt.Errorf("error generating grids: %w", err)
	}
	log.Info("grids generated",
		"cities", len(cfg.Cities),
		"hexagons", humanize.Comma(int64(len(hexes))),
		"took", time.Since(start),
	)

	rows, err := pointexport.WriteFile(output, pointexport.Encode(hexes))
	if err != nil {
		return generateResult{}, fmt.Errorf("failed to save points to file: %w", err)
	}

	res := generateResult{
		Hexagons: len(hexes),
		Rows:     rows,
		Cities:   builder.Stats(),
	}
	if info, err := os.Stat(output); err == nil {
		res.Bytes = info.Size()
	}
	log.Info("points saved",
		"rows", humanize.Comma(int64(res.Rows)),
		"size", humanize.Bytes(uint64(res.Bytes)),
	)

	return res, nil
}
