package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/royalcat/hexcities/pointexport"
	"github.com/urfave/cli/v3"
)

func decode(ctx *cli.Context) error {
	_, err := runDecode(ctx.String("input"), ctx.String("output"))
	return err
}

type decodeResult struct {
	Hexagons int
	Skipped  int
	Dropped  int
}

func runDecode(input, output string) (decodeResult, error) {
	log := slog.Default().With("input", input)

	f, err := pointexport.Open(input)
	if err != nil {
		return decodeResult{}, err
	}
	defer f.Close()

	records, skipped, err := pointexport.ReadPoints(f)
	if err != nil {
		return decodeResult{}, fmt.Errorf("error reading points: %w", err)
	}
	hexes, dropped := pointexport.Decode(records)

	res := decodeResult{Hexagons: len(hexes), Skipped: skipped, Dropped: dropped}
	if skipped > 0 || dropped > 0 {
		log.Warn("export has broken rows", "skipped_rows", skipped, "dropped_groups", dropped)
	}

	data, err := json.Marshal(pointexport.FeatureCollection(hexes))
	if err != nil {
		return decodeResult{}, fmt.Errorf("error encoding geojson: %w", err)
	}

	if output == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return res, err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return decodeResult{}, fmt.Errorf("error writing geojson: %w", err)
	}
	log.Info("hexagons decoded",
		"hexagons", humanize.Comma(int64(res.Hexagons)),
		"size", humanize.Bytes(uint64(len(data))),
		"output", output,
	)
	return res, nil
}
