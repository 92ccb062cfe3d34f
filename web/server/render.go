package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-pathtracer/pkg/imageio"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Message types sent over the render websocket
const (
	MessagePass     = "pass"
	MessageTile     = "tile"
	MessageError    = "error"
	MessageComplete = "complete"
)

// ProgressUpdate is sent once per completed pass
type ProgressUpdate struct {
	Type           string `json:"type"`
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG
	Stats          Stats  `json:"stats"`
	IsLast         bool   `json:"isLast"`
	ElapsedMs      int64  `json:"elapsedMs"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// TileUpdate represents a single tile update
type TileUpdate struct {
	Type        string `json:"type"`
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// StatusMessage carries the final complete or error notification
type StatusMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// handleRender upgrades to a websocket and streams every pass of a progressive render.
// Parameter and scene errors are reported with a plain HTTP 400 before upgrading.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = req.MaxSamples
	config.MaxPasses = req.MaxPasses
	config.MaxDepth = req.MaxDepth
	config.Seed = req.Seed

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, req.Width, req.Height, config, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warningf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Only the reader goroutine reads; a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Infof("render started: scene=%s %dx%d spp=%d passes=%d", req.Scene, req.Width, req.Height, req.MaxSamples, req.MaxPasses)
	startTime := time.Now()
	passChan, tileChan, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.Tiles})

	if err := s.streamRender(conn, passChan, tileChan, errChan, sceneObj, req, startTime); err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			s.logger.Infof("render stopped: %v", err)
			return
		}
		s.logger.Errorf("render failed: %v", err)
		s.sendMessage(conn, StatusMessage{Type: MessageError, Message: err.Error()})
		return
	}

	s.sendMessage(conn, StatusMessage{Type: MessageComplete, Message: "rendering completed"})
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}

// streamRender forwards pass and tile results to the client until the render ends
func (s *Server) streamRender(conn *websocket.Conn, passChan <-chan renderer.PassResult,
	tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	sceneObj *scene.Scene, req *RenderRequest, startTime time.Time) error {

	for passChan != nil || tileChan != nil {
		select {
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.sendPass(conn, result, sceneObj, req, startTime); err != nil {
				return err
			}

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			if err := s.sendTile(conn, tile); err != nil {
				return err
			}
		}
	}
	return <-errChan
}

func (s *Server) sendPass(conn *websocket.Conn, result renderer.PassResult, sceneObj *scene.Scene, req *RenderRequest, startTime time.Time) error {
	imageData, err := framebufferToBase64PNG(result.Image)
	if err != nil {
		return err
	}

	return s.sendMessage(conn, ProgressUpdate{
		Type:        MessagePass,
		PassNumber:  result.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    result.Stats.TotalPixels,
			TotalSamples:   int64(result.Stats.TotalSamples),
			AverageSamples: result.Stats.AverageSamples,
			MaxSamples:     result.Stats.MaxSamples,
			MinSamples:     result.Stats.MinSamples,
			MaxSamplesUsed: result.Stats.MaxSamplesUsed,
		},
		IsLast:         result.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.PrimitiveCount(),
	})
}

func (s *Server) sendTile(conn *websocket.Conn, tile renderer.TileCompletionResult) error {
	imageData, err := framebufferToBase64PNG(tile.TileImage)
	if err != nil {
		return err
	}

	return s.sendMessage(conn, TileUpdate{
		Type:        MessageTile,
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   imageData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	})
}

func (s *Server) sendMessage(conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// framebufferToBase64PNG tone maps and encodes a framebuffer as base64 PNG
func framebufferToBase64PNG(fb *imageio.Framebuffer) (string, error) {
	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, fb); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
