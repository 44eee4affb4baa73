package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
)

func TestNewTileGrid(t *testing.T) {
	tiles := NewTileGrid(10, 5, 4)
	if len(tiles) != 6 {
		t.Fatalf("Expected 6 tiles, got %d", len(tiles))
	}

	if got, want := tiles[len(tiles)-1].Bounds, image.Rect(8, 4, 10, 5); got != want {
		t.Errorf("Last tile bounds = %v, want %v", got, want)
	}

	covered := make(map[image.Point]int)
	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("Tile %d has ID %d", i, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[image.Pt(x, y)]++
			}
		}
	}
	if len(covered) != 50 {
		t.Errorf("Tiles cover %d pixels, want 50", len(covered))
	}
	for p, n := range covered {
		if n != 1 {
			t.Errorf("Pixel %v covered %d times", p, n)
		}
	}
}

func TestTileRendererMatchesSequential(t *testing.T) {
	rt := createTestRaytracer(t, 23, 17)
	canvas := NewCanvas(23, 17)

	var results []TileCompletionResult
	tr := NewTileRenderer(rt, RenderConfig{TileSize: 5, NumWorkers: 3}, nil)
	stats, err := tr.Render(context.Background(), canvas, func(r TileCompletionResult) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	expectedTiles := 5 * 4
	if stats.Tiles != expectedTiles || len(results) != expectedTiles {
		t.Errorf("Tiles = %d, callbacks = %d, want %d", stats.Tiles, len(results), expectedTiles)
	}
	if stats.TotalPixels != 23*17 {
		t.Errorf("TotalPixels = %d, want %d", stats.TotalPixels, 23*17)
	}
	if stats.HitPixels == 0 || stats.MissPixels == 0 {
		t.Errorf("Expected both hits and misses, got %v", stats)
	}

	for i, r := range results {
		if r.TileNumber != i+1 || r.TotalTiles != expectedTiles {
			t.Errorf("Callback %d reported tile %d of %d", i, r.TileNumber, r.TotalTiles)
		}
		if r.TileImage.Bounds().Size() != r.Bounds.Size() {
			t.Errorf("Tile image %v does not match bounds %v", r.TileImage.Bounds(), r.Bounds)
		}
		if got, want := r.TileImage.RGBAAt(0, 0), canvas.Image().RGBAAt(r.Bounds.Min.X, r.Bounds.Min.Y); got != want {
			t.Errorf("Tile %v first pixel = %v, want %v", r.Bounds, got, want)
		}
	}

	for y := 0; y < canvas.Height(); y++ {
		for x := 0; x < canvas.Width(); x++ {
			if got, want := canvas.At(x, y), rt.ColorAt(x, y); got != want {
				t.Fatalf("Pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTileRendererCancelled(t *testing.T) {
	rt := createTestRaytracer(t, 16, 16)
	canvas := NewCanvas(16, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := 0
	tr := NewTileRenderer(rt, RenderConfig{TileSize: 4, NumWorkers: 2}, nil)
	stats, err := tr.Render(ctx, canvas, func(TileCompletionResult) { called++ })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if stats.TotalPixels != 0 || called != 0 {
		t.Errorf("Cancelled render should skip every tile, rendered %d pixels and %d callbacks", stats.TotalPixels, called)
	}
}

func TestTileRendererSizeMismatch(t *testing.T) {
	rt := createTestRaytracer(t, 16, 16)
	tr := NewTileRenderer(rt, DefaultRenderConfig(), nil)

	_, err := tr.Render(context.Background(), NewCanvas(8, 16), nil)
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Render() error = %v, want ErrInvalidConfig", err)
	}
}

func TestRenderStatsMerge(t *testing.T) {
	a := NewRenderStats()
	a.addPixel("sphere", true)
	a.addPixel("", false)

	var b RenderStats
	b.Merge(a)
	b.Merge(a)

	if b.TotalPixels != 4 || b.HitPixels != 2 || b.MissPixels != 2 {
		t.Errorf("Merged stats = %+v", b)
	}
	if b.ShapeHits["sphere"] != 2 {
		t.Errorf("ShapeHits = %v", b.ShapeHits)
	}
	if b.Coverage() != 0.5 {
		t.Errorf("Coverage() = %g, want 0.5", b.Coverage())
	}
	if (RenderStats{}).Coverage() != 0 {
		t.Error("Empty stats should have zero coverage")
	}
}
