package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`               // "builtin" or "obj"
	FilePath    string `json:"filePath,omitempty"` // obj type only
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

// ListOBJScenes scans dir for OBJ scenes, either dir/*.obj or dir/<name>/scene.obj.
// A missing directory yields an empty list.
func ListOBJScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.obj", filepath.Join("*", "scene.obj")} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseOBJMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseOBJMetadata extracts metadata from the leading comment block of an OBJ file:
//
//	# Scene: Cornell Box
//	# Description: Classic box
//	# Group: Classics
func ParseOBJMetadata(filePath string) (SceneInfo, error) {
	// scenes shipped as <name>/scene.obj are named after their directory
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	if base == "scene" {
		base = filepath.Base(filepath.Dir(filePath))
	}

	info := SceneInfo{
		ID:          filePath,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       "OBJ Scenes",
		Type:        "obj",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
			info.DisplayName = info.Name
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			info.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns built-in scenes and the OBJ scenes found in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	var all []SceneInfo
	for _, name := range Names() {
		p := builtins[name]
		all = append(all, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: p.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	objScenes, err := ListOBJScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list OBJ scenes: %w", err)
	}
	all = append(all, objScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range all {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: groupMap[builtinGroup]})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
