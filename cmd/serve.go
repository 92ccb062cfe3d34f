package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/web/server"
)

// Serve starts the live preview server.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	port := ctx.Int("port")
	logger.Noticef("visit http://localhost:%d to start rendering", port)
	return server.NewServer(port, ctx.String("scenes")).Start()
}
