package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/overlay"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/sink"
)

const axisSize = 0.5

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Completed tiles so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// CompleteUpdate is the final event of a render
type CompleteUpdate struct {
	RenderID  string `json:"renderId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG of the full image
	ElapsedMs int64  `json:"elapsedMs"`
	Policy    string `json:"policy"`
	Stats     Stats  `json:"stats"`
}

// SSEEvent is one Server-Sent Event
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// sseWriter writes events straight to the response. Tile callbacks run on
// the handler goroutine so no extra synchronisation is needed.
type sseWriter struct {
	ctx     context.Context
	w       http.ResponseWriter
	console chan ConsoleMessage
}

func (sw *sseWriter) send(event SSEEvent) {
	if sw.ctx.Err() != nil {
		return
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return
	}
	if flusher, ok := sw.w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (sw *sseWriter) sendJSON(eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	sw.send(SSEEvent{Type: eventType, Data: string(data)})
}

// flushConsole forwards every queued console message
func (sw *sseWriter) flushConsole() {
	for {
		select {
		case msg := <-sw.console:
			sw.sendJSON("console", msg)
		default:
			return
		}
	}
}

// handleRender renders a scene tile by tile, streaming each finished tile via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	consoleChan, renderID, webLogger := setupConsoleLogging()
	sw := &sseWriter{ctx: r.Context(), w: w, console: consoleChan}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sw.send(SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	p, err := s.setupPipeline(req, webLogger)
	if err != nil {
		sw.flushConsole()
		sw.send(SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	webLogger.Printf("Render %s: scene %s at %dx%d\n", renderID, req.Scene, req.Width, req.Height)
	startTime := time.Now()

	canvas, stats, err := s.renderImage(r.Context(), p, req, webLogger, func(tile renderer.TileCompletionResult) {
		data, err := encodeBase64PNG(tile.TileImage)
		if err != nil {
			log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
			return
		}
		sw.sendJSON("tile", TileUpdate{
			TileX:      tile.TileX,
			TileY:      tile.TileY,
			ImageData:  data,
			TileNumber: tile.TileNumber,
			TotalTiles: tile.TotalTiles,
		})
		sw.flushConsole()
	})
	if err != nil {
		sw.flushConsole()
		sw.send(SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
		return
	}

	data, err := encodeBase64PNG(canvas.Image())
	if err != nil {
		sw.send(SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	webLogger.Printf("Render %s finished: %s\n", renderID, stats)
	sw.flushConsole()
	sw.sendJSON("complete", CompleteUpdate{
		RenderID:  renderID,
		ImageData: data,
		ElapsedMs: time.Since(startTime).Milliseconds(),
		Policy:    p.preset.Scene.HitPolicy().String(),
		Stats:     newStats(stats),
	})
}

// handleImage renders a scene and returns it as a PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger := renderer.NewDefaultLogger()
	p, err := s.setupPipeline(req, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	canvas, _, err := s.renderImage(r.Context(), p, req, logger, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := sink.EncodePNG(canvas.Image())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

// renderImage renders the pipeline into a fresh canvas, then draws the axes overlay if requested
func (s *Server) renderImage(ctx context.Context, p *pipeline, req *RenderRequest, logger core.Logger, cb renderer.TileCallback) (*renderer.Canvas, renderer.RenderStats, error) {
	tileRenderer := renderer.NewTileRenderer(p.raytracer, renderer.RenderConfig{TileSize: req.TileSize}, logger)
	canvas := renderer.NewCanvas(p.camera.Width(), p.camera.Height())

	stats, err := tileRenderer.Render(ctx, canvas, cb)
	if err != nil {
		return nil, stats, err
	}

	if req.Axes {
		overlay.New(p.camera, canvas, logger).DrawSceneAxes(p.preset.Scene, axisSize, false)
	}
	return canvas, stats, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates the console channel and web logger for a render
func setupConsoleLogging() (chan ConsoleMessage, string, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := uuid.NewString()
	return consoleChan, renderID, NewWebLogger(renderID, consoleChan)
}

// encodeBase64PNG converts an image to base64-encoded PNG
func encodeBase64PNG(img image.Image) (string, error) {
	data, err := sink.EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
