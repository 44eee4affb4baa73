package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
)

// RenderConfig contains configuration for tiled rendering
type RenderConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   64,
		NumWorkers: 0,
	}
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Image-space pixel bounds, rows top-down
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int             // Tile coordinates (not pixel coordinates)
	TileY     int
	Bounds    image.Rectangle // Image-space pixel bounds
	TileImage *image.RGBA     // Copy of the finished pixels of this tile

	TileNumber int // Completed tiles so far (1-based)
	TotalTiles int // Total number of tiles in the image
}

// TileCallback is invoked once per finished tile, always from the goroutine
// that called Render
type TileCallback func(TileCompletionResult)

// TileRenderer renders a raytracer's image in parallel tiles
type TileRenderer struct {
	raytracer *Raytracer
	config    RenderConfig
	logger    core.Logger
}

// NewTileRenderer creates a tile renderer. A nil logger discards output.
func NewTileRenderer(raytracer *Raytracer, config RenderConfig, logger core.Logger) *TileRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &TileRenderer{
		raytracer: raytracer,
		config:    config,
		logger:    logger,
	}
}

// Render fills canvas and returns when every tile is done. If ctx is
// cancelled, tiles not yet started are skipped and ctx.Err() is returned
// with the statistics of the tiles that did finish.
func (tr *TileRenderer) Render(ctx context.Context, canvas *Canvas, callback TileCallback) (RenderStats, error) {
	camera := tr.raytracer.Camera()
	if canvas.Width() != camera.Width() || canvas.Height() != camera.Height() {
		return RenderStats{}, fmt.Errorf("canvas is %dx%d but camera renders %dx%d: %w",
			canvas.Width(), canvas.Height(), camera.Width(), camera.Height(), core.ErrInvalidConfig)
	}

	startTime := time.Now()
	tiles := NewTileGrid(canvas.Width(), canvas.Height(), tr.config.TileSize)
	pool := NewWorkerPool(tr.raytracer, canvas, tr.config.NumWorkers, len(tiles))

	tr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		canvas.Width(), canvas.Height(), len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	stats := NewRenderStats()
	completed := 0
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			pool.Stop()
			return stats, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Skipped {
			continue
		}

		stats.Merge(result.Stats)
		completed++

		if callback != nil {
			tile := tiles[result.TaskID]
			callback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / tr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / tr.config.TileSize,
				Bounds:     tile.Bounds,
				TileImage:  canvas.subImage(tile.Bounds),
				TileNumber: completed,
				TotalTiles: len(tiles),
			})
		}
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)
	if completed < len(tiles) {
		tr.logger.Printf("Rendering cancelled after %d of %d tiles\n", completed, len(tiles))
		return stats, ctx.Err()
	}

	tr.logger.Printf("Render completed: %v\n", stats)
	return stats, nil
}
