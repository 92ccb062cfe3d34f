package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
)

func newApp() *cli.App {
	// -v is the verbose logging flag, so --version loses its short alias
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render triangle scenes with progressive Monte Carlo path tracing"
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
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Render a built-in scene or a wavefront obj file in progressive passes and
write the tone-mapped frame as PNG or PPM. Press Ctrl+C to stop early; the
last completed pass is still written.

The linear radiance buffer can optionally be dumped with --dump.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderFrame,
		},
		{
			Name:  "scenes",
			Usage: "list available scenes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Usage: "also list wavefront obj scenes found in this directory",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "start the live preview server",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "port",
					Value:  8080,
					Usage:  "port to serve on",
					EnvVar: "PATHTRACER_PORT",
				},
				cli.StringFlag{
					Name:   "scenes",
					Value:  "scenes",
					Usage:  "directory searched for wavefront obj scenes",
					EnvVar: "PATHTRACER_SCENES",
				},
			},
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
