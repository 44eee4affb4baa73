package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int            // Total number of pixels rendered
	HitPixels   int            // Pixels whose ray hit a shape
	MissPixels  int            // Pixels painted with the background
	Tiles       int            // Tiles completed
	Duration    time.Duration  // Wall time of the whole render
	ShapeHits   map[string]int // Hit pixels per shape name
}

// NewRenderStats returns empty statistics
func NewRenderStats() RenderStats {
	return RenderStats{ShapeHits: make(map[string]int)}
}

func (s *RenderStats) addPixel(shape string, isHit bool) {
	s.TotalPixels++
	if !isHit {
		s.MissPixels++
		return
	}
	s.HitPixels++
	s.ShapeHits[shape]++
}

// Merge adds the pixel counts of other into s
func (s *RenderStats) Merge(other RenderStats) {
	if s.ShapeHits == nil {
		s.ShapeHits = make(map[string]int)
	}
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.MissPixels += other.MissPixels
	s.Tiles += other.Tiles
	for name, n := range other.ShapeHits {
		s.ShapeHits[name] += n
	}
}

// Coverage is the fraction of pixels that hit a shape
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d pixels (%d hit, %d miss) in %d tiles, %v",
		s.TotalPixels, s.HitPixels, s.MissPixels, s.Tiles, s.Duration)
}
