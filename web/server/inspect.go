package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for surface inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialName string                 `json:"materialName,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo describes a material; nil reports the default gray the integrator substitutes
func extractMaterialInfo(mat *material.Material, uv core.Vec2) (string, string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if mat == nil {
		mat = material.DefaultGray()
	}

	if mat.IsEmissive() {
		properties["emission"] = vec3Array(mat.Emission)
		properties["color"] = hexColor(mat.Emission)
		return mat.Name, "emissive", properties
	}

	albedo := mat.Albedo(uv)
	properties["albedo"] = vec3Array(albedo)
	properties["color"] = hexColor(albedo)
	properties["textured"] = mat.Texture != nil
	if mat.Model == material.Phong {
		properties["specular"] = vec3Array(mat.Specular)
		properties["exponent"] = mat.Exponent
	}
	return mat.Name, mat.Model.String(), properties
}

// inspectPixel casts a ray through the centre of pixel (x, y), row 0 at the top,
// and returns the nearest hit
func inspectPixel(s *scene.Scene, width, height, x, y int) (geometry.HitRecord, bool) {
	u := (float64(x) + 0.5) / float64(width)
	v := (float64(height-1-y) + 0.5) / float64(height)
	return s.Hit(s.Camera.GenerateRay(u, v))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(values, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj.SetAspectRatio(float64(req.Width) / float64(req.Height))
	if err := sceneObj.Preprocess(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	hit, ok := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	name, kind, properties := extractMaterialInfo(hit.Material, hit.UV)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialName: name,
		MaterialType: kind,
		Point:        vec3Array(hit.Point),
		Normal:       vec3Array(hit.Normal),
		UV:           [2]float64{hit.UV.X, hit.UV.Y},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	})
}
