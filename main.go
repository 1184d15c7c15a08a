package main

import (
	"fmt"
	"os"

	"github.com/Endoctrine/nebula/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "nebula"
	app.Usage = "render wavefront scenes using cpu path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Parse a scene definition from a wavefront obj file, build a BVH tree to
accelerate ray intersection tests and render a single frame using all
available cpu cores.

The frame is tone-mapped and written to an image file whose format is
selected by the output file extension (png, bmp or tiff).`,
			ArgsUsage: "scene_file.obj",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "width",
					Value: 800,
					Usage: "frame width",
				},
				cli.UintFlag{
					Name:  "height",
					Value: 450,
					Usage: "frame height",
				},
				cli.UintFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel",
				},
				cli.UintFlag{
					Name:  "bounces",
					Value: 5,
					Usage: "max number of ray bounces",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers; 0 uses one worker per cpu core",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 0,
					Usage: "random seed; 0 picks a time-based seed",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "naive",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.Float64Flag{
					Name:  "fov",
					Usage: "override the scene camera vertical field of view in degrees",
				},
				cli.Float64Flag{
					Name:  "lens-radius",
					Usage: "override the scene camera lens radius",
				},
				cli.Float64Flag{
					Name:  "focus-distance",
					Usage: "override the scene camera focus distance",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "display scene information",
			ArgsUsage: "scene_file.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "check-rays",
					Value: 0,
					Usage: "verify the BVH against a brute-force test using this many random primary rays",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for the BVH check",
				},
			},
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:   "list-devices",
			Usage:  "list host cpus available for rendering",
			Action: cmd.ListDevices,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
