package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-box", "Cornell Box"},
		{"living_room", "Living Room"},
		{"veach-mis", "Veach Mis"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseOBJMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete metadata",
			file: "box.obj",
			content: `# Scene: Cornell Box
# Description: Classic Cornell box
# Group: Classics

v 0 0 0`,
			expected: SceneInfo{
				Name:        "Cornell Box",
				DisplayName: "Cornell Box",
				Description: "Classic Cornell box",
				Group:       "Classics",
				Type:        "obj",
			},
		},
		{
			name:    "no metadata",
			file:    "my_model.obj",
			content: "v 0 0 0\n# Scene: ignored after geometry\n",
			expected: SceneInfo{
				Name:        "My Model",
				DisplayName: "My Model",
				Group:       "OBJ Scenes",
				Type:        "obj",
			},
		},
		{
			name:    "named after directory",
			file:    filepath.Join("living-room", "scene.obj"),
			content: "# exported\nv 0 0 0\n",
			expected: SceneInfo{
				Name:        "Living Room",
				DisplayName: "Living Room",
				Group:       "OBJ Scenes",
				Type:        "obj",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			info, err := ParseOBJMetadata(path)
			if err != nil {
				t.Fatalf("ParseOBJMetadata failed: %v", err)
			}

			tc.expected.ID = path
			tc.expected.FilePath = path
			if info != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, info)
			}
		})
	}
}

func TestListOBJScenes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.obj":                                  "# Scene: Beta\n",
		"a.obj":                                  "# Scene: Alpha\n",
		filepath.Join("cornell-box", "scene.obj"): "v 0 0 0\n",
		filepath.Join("cornell-box", "other.obj"): "v 0 0 0\n",
		"notes.txt":                              "not a scene",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	scenes, err := ListOBJScenes(dir)
	if err != nil {
		t.Fatalf("ListOBJScenes failed: %v", err)
	}

	want := []string{"Alpha", "Beta", "Cornell Box"}
	if len(scenes) != len(want) {
		t.Fatalf("Expected %d scenes, got %d: %+v", len(want), len(scenes), scenes)
	}
	for i, name := range want {
		if scenes[i].DisplayName != name {
			t.Errorf("Scene %d: expected %q, got %q", i, name, scenes[i].DisplayName)
		}
	}
}

func TestListOBJScenes_MissingDir(t *testing.T) {
	scenes, err := ListOBJScenes(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "z.obj"), []byte("# Group: Zeta\n"), 0644)
	os.WriteFile(filepath.Join(dir, "y.obj"), []byte("# Group: Alpha\n"), 0644)

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes failed: %v", err)
	}

	wantGroups := []string{builtinGroup, "Alpha", "Zeta"}
	if len(response.Groups) != len(wantGroups) {
		t.Fatalf("Expected %d groups, got %d", len(wantGroups), len(response.Groups))
	}
	for i, name := range wantGroups {
		if response.Groups[i].Name != name {
			t.Errorf("Group %d: expected %q, got %q", i, name, response.Groups[i].Name)
		}
	}

	builtinScenes := response.Groups[0].Scenes
	if len(builtinScenes) != len(Names()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(Names()), len(builtinScenes))
	}
	for _, s := range builtinScenes {
		if s.Type != "builtin" {
			t.Errorf("Expected builtin type for %s, got %s", s.ID, s.Type)
		}
	}
}
