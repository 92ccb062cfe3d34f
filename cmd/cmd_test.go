package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestRenderStatsTable(t *testing.T) {
	stats := renderer.RenderStats{
		TotalPixels:    400,
		TotalSamples:   1600,
		AverageSamples: 4,
		MinSamples:     4,
		MaxSamplesUsed: 4,
		Elapsed:        1500 * time.Millisecond,
	}
	config := renderer.DefaultProgressiveConfig()

	table := renderStatsTable(config, stats, 0.25)
	for _, want := range []string{"Avg spp", "Render time", "400", "1600", "4.0", "0.2500", "1.5s"} {
		if !strings.Contains(table, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, table)
		}
	}
}

func TestScenesTable(t *testing.T) {
	table, err := scenesTable("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, name := range scene.Names() {
		if !strings.Contains(table, name) {
			t.Errorf("Expected built-in scene %q in table:\n%s", name, table)
		}
	}

	dir := t.TempDir()
	obj := "# Scene: Tiny\n# Description: one triangle\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "tiny.obj"), []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}

	table, err = scenesTable(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(table, "tiny.obj") || !strings.Contains(table, "one triangle") {
		t.Errorf("Expected OBJ scene in table:\n%s", table)
	}
	if !strings.Contains(table, "Built-in Scenes") {
		t.Errorf("Expected built-in group in table:\n%s", table)
	}
}
