package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Server handles web requests for the ray caster
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server. Scene files are looked up in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`    // Built-in id or "file:<name>"
	Width    int    `json:"width"`    // Image width
	Height   int    `json:"height"`   // Image height
	Policy   string `json:"policy"`   // Hit policy override, empty keeps the scene's
	TileSize int    `json:"tileSize"` // Tile size in pixels
	Axes     bool   `json:"axes"`     // Draw debug axes on the final image
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int            `json:"totalPixels"`
	HitPixels   int            `json:"hitPixels"`
	MissPixels  int            `json:"missPixels"`
	Tiles       int            `json:"tiles"`
	ShapeHits   map[string]int `json:"shapeHits"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels: s.TotalPixels,
		HitPixels:   s.HitPixels,
		MissPixels:  s.MissPixels,
		Tiles:       s.Tiles,
		ShapeHits:   s.ShapeHits,
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListScenes(s.scenesDir, log.Default())
	if err != nil {
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

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Policy: query.Get("policy"),
		Axes:   query.Get("axes") == "true",
	}
	if req.Scene == "" {
		req.Scene = "sphere" // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", 64, 8, 512); err != nil {
		return nil, err
	}
	if req.Policy != "" {
		if _, err := scene.ParseHitPolicy(req.Policy); err != nil {
			return nil, err
		}
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

// pipeline holds everything needed to render or inspect one request
type pipeline struct {
	preset    scene.Preset
	camera    *geometry.Camera
	raytracer *renderer.Raytracer
}

// createScene resolves a built-in id or a "file:" id from the scenes directory
func (s *Server) createScene(id string, logger core.Logger) (scene.Preset, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		if strings.ContainsAny(name, `/\`) || name == ".." {
			return scene.Preset{}, fmt.Errorf("invalid scene file name %q", name)
		}
		return loaders.LoadSceneFile(s.scenesDir+"/"+name+".json", logger)
	}
	return scene.Lookup(id, logger)
}

// setupPipeline builds the scene, camera and raytracer for a request
func (s *Server) setupPipeline(req *RenderRequest, logger core.Logger) (*pipeline, error) {
	preset, err := s.createScene(req.Scene, logger)
	if err != nil {
		return nil, err
	}
	if preset, err = preset.WithSize(req.Width, req.Height); err != nil {
		return nil, err
	}
	if req.Policy != "" {
		policy, err := scene.ParseHitPolicy(req.Policy)
		if err != nil {
			return nil, err
		}
		preset.Scene.SetHitPolicy(policy)
	}

	camera, err := geometry.NewCamera(preset.Camera)
	if err != nil {
		return nil, err
	}
	return &pipeline{
		preset:    preset,
		camera:    camera,
		raytracer: renderer.NewRaytracer(preset.Scene, camera, preset.Background),
	}, nil
}
