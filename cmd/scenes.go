package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// ListScenes prints the built-in scenes and, with --dir, the OBJ scenes found there.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	table, err := scenesTable(ctx.String("dir"))
	if err != nil {
		return err
	}
	logger.Noticef("available scenes\n%s", table)
	return nil
}

func scenesTable(dir string) (string, error) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "Scene", "Description"})

	if dir == "" {
		for _, name := range scene.Names() {
			preset, err := scene.Lookup(name)
			if err != nil {
				return "", err
			}
			table.Append([]string{"built-in", name, preset.Description})
		}
		table.Render()
		return buf.String(), nil
	}

	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return "", err
	}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{group.Name, info.ID, info.Description})
		}
	}
	table.Render()
	return buf.String(), nil
}
