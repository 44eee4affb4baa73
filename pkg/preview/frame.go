package preview

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/df07/go-raycaster/pkg/renderer"
)

// Frame is the image shown while a render is in progress. The render
// goroutine paints tiles into it while the display reads snapshots.
type Frame struct {
	mu     sync.Mutex
	img    *image.RGBA
	tiles  int
	total  int
	done   bool
	stats  renderer.RenderStats
	err    error
	serial int // Bumped on every change so the window only re-uploads when needed
}

func newFrame(width, height int) *Frame {
	return &Frame{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// paintTile copies one finished tile into place
func (f *Frame) paintTile(tile renderer.TileCompletionResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draw.Draw(f.img, tile.Bounds, tile.TileImage, image.Point{}, draw.Src)
	f.tiles = tile.TileNumber
	f.total = tile.TotalTiles
	f.serial++
}

// finish replaces the frame with the final image, overlay included
func (f *Frame) finish(img *image.RGBA, stats renderer.RenderStats, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		draw.Draw(f.img, f.img.Bounds(), img, image.Point{}, draw.Src)
	}
	f.done = true
	f.stats = stats
	f.err = err
	f.serial++
}

// Done reports whether the render has finished, and its error if it failed
func (f *Frame) Done() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done, f.err
}

// Stats returns the statistics of a finished render
func (f *Frame) Stats() renderer.RenderStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Snapshot copies the RGBA pixels if they changed since serial. Pass -1 to
// always get a copy.
func (f *Frame) Snapshot(serial int) ([]byte, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if serial == f.serial {
		return nil, serial, false
	}
	pix := make([]byte, len(f.img.Pix))
	copy(pix, f.img.Pix)
	return pix, f.serial, true
}

// Status is a one-line description of render progress
func (f *Frame) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.err != nil:
		return fmt.Sprintf("render failed: %v", f.err)
	case f.done:
		return fmt.Sprintf("%d hit / %d pixels (%.0f%%)", f.stats.HitPixels, f.stats.TotalPixels, f.stats.Coverage()*100)
	default:
		return fmt.Sprintf("tile %d/%d", f.tiles, f.total)
	}
}
