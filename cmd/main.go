package main

import (
	"log"
	"os"

	"github.com/royalcat/hexcities/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const appName = "hexcities"

func newApp() *cli.App {
	return &cli.App{
		Name:        appName,
		Description: "Hexagonal grids around French cities, exported as labeled points",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generates hexagon points for the configured cities",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "config",
						Aliases:   []string{"c"},
						TakesFile: true,
						Usage:     "TOML run file, the built-in twenty cities when empty",
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						TakesFile: true,
						Value:     "hexagones_villes_france_coordinates.csv",
						Usage:     "export path, zstd compressed when it ends with .zst",
					},
					&cli.Float64Flag{
						Name:  "side",
						Usage: "hexagon side in meters",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "default coverage radius in meters",
					},
					&cli.Float64Flag{
						Name:  "area-scale",
						Usage: "scale applied to area derived radii",
					},
					&cli.StringFlag{
						Name:  "radius-policy",
						Usage: config.PolicyFixed + " or " + config.PolicyArea,
					},
					&cli.StringFlag{
						Name:  "offset",
						Usage: "row or column",
					},
					&cli.BoolFlag{
						Name:  "no-clip",
						Usage: "keep the whole bounding square of every city",
					},
					&cli.BoolFlag{
						Name: "progress",
					},
					&cli.StringFlag{
						Name:        "telemetry.endpoint",
						DefaultText: "",
					},
					&cli.StringFlag{
						Name:        "metrics.textfile",
						DefaultText: "",
						TakesFile:   true,
					},
				},
				Action: generate,
			},
			{
				Name:    "decode",
				Aliases: []string{"d"},
				Usage:   "rebuilds hexagons from an export as GeoJSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						TakesFile: true,
						Usage:     "GeoJSON path, stdout when empty",
					},
				},
				Action: decode,
			},
			{
				Name:    "locate",
				Aliases: []string{"l"},
				Usage:   "finds the exported hexagon covering each lon,lat point",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
					},
				},
				ArgsUsage: "[--] lon,lat [lon,lat ...]",
				Action:    locate,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
