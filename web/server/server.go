package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server handles web requests for the progressive path tracer preview
type Server struct {
	port      int
	scenesDir string
	staticDir string
	logger    log.Logger
	upgrader  websocket.Upgrader
}

// NewServer creates a new preview server. OBJ scenes are discovered under scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		staticDir: "static",
		logger:    log.New("web server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string // built-in name or OBJ path under the scenes directory
	Width      int
	Height     int
	MaxSamples int
	MaxPasses  int
	MaxDepth   int
	Seed       int64
	Tiles      bool // stream per-tile updates in addition to passes
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
}

// Handler returns the request router for the preview server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/ws/render", s.handleRender)
	return mux
}

// Start starts the web server and blocks until it fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the OBJ scenes found in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		s.logger.Errorf("scene discovery failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseCommonSceneParams parses the scene and image size shared by render and inspect
func (s *Server) parseCommonSceneParams(values url.Values, req *RenderRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 16, 2000); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(values, req); err != nil {
		return nil, err
	}

	var err error
	if req.MaxSamples, err = parseIntParam(values, "spp", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "passes", 5, 1, 1000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 5, 1, 64); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	req.Tiles = values.Get("tiles") == "1" || values.Get("tiles") == "true"

	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		s.logger.Warning("large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene at the requested size.
// OBJ scenes must live inside the scenes directory.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	name := req.Scene
	if strings.EqualFold(filepath.Ext(name), ".obj") {
		path, err := s.resolveScenePath(name)
		if err != nil {
			return nil, err
		}
		name = path
	}

	preset, err := scene.Lookup(name)
	if err != nil {
		return nil, err
	}

	sampling := scene.SamplingConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
	}
	return preset.Build(sampling)
}

func (s *Server) resolveScenePath(name string) (string, error) {
	root, err := filepath.Abs(s.scenesDir)
	if err != nil {
		return "", err
	}

	path := name
	if !filepath.IsAbs(path) && !strings.HasPrefix(filepath.Clean(path), filepath.Clean(s.scenesDir)+string(filepath.Separator)) {
		path = filepath.Join(s.scenesDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q is outside the scenes directory", scene.ErrUnknownScene, name)
	}
	return abs, nil
}
