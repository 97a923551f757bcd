package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/royalcat/hexcities/locator"
	"github.com/urfave/cli/v3"
)

func locate(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("no point to locate, expected lon,lat arguments")
	}
	return runLocate(os.Stdout, ctx.String("input"), ctx.Args().Slice())
}

func parsePoint(s string) (orb.Point, error) {
	lonS, latS, ok := strings.Cut(s, ",")
	if !ok {
		return orb.Point{}, fmt.Errorf("point %q is not lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	return orb.Point{lon, lat}, nil
}

// runLocate writes a "point,hexagon" row per query, the hexagon column is
// "{group}_{city}" or empty when no exported hexagon covers the point.
func runLocate(w io.Writer, input string, queries []string) error {
	points := make([]orb.Point, 0, len(queries))
	for _, q := range queries {
		p, err := parsePoint(q)
		if err != nil {
			return err
		}
		points = append(points, p)
	}

	l, err := locator.LoadFile(input)
	if err != nil {
		return err
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"point", "hexagon"}); err != nil {
		return err
	}
	for i, p := range points {
		var label string
		if h, ok := l.Find(p); ok {
			label = strconv.Itoa(h.Group) + "_" + h.City
		}
		if err := out.Write([]string{queries[i], label}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
