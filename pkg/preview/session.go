// Package preview renders a scene in the background so a window can show
// tiles as they finish and re-render when the user changes a setting.
package preview

import (
	"context"
	"image"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/overlay"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

const axisSize = 0.5

// Session owns the scene being previewed and its current render.
// Its methods must be called from a single goroutine.
type Session struct {
	preset    scene.Preset
	camera    *geometry.Camera
	raytracer *renderer.Raytracer
	config    renderer.RenderConfig
	axes      bool
	logger    core.Logger

	frame  *Frame
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession prepares a preview of preset. Nothing renders until Start.
func NewSession(preset scene.Preset, config renderer.RenderConfig, axes bool, logger core.Logger) (*Session, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	camera, err := geometry.NewCamera(preset.Camera)
	if err != nil {
		return nil, err
	}
	return &Session{
		preset:    preset,
		camera:    camera,
		raytracer: renderer.NewRaytracer(preset.Scene, camera, preset.Background),
		config:    config,
		axes:      axes,
		logger:    logger,
		frame:     newFrame(camera.Width(), camera.Height()),
	}, nil
}

// Size is the image size in pixels
func (s *Session) Size() (width, height int) {
	return s.camera.Width(), s.camera.Height()
}

// Frame is the frame of the most recent render
func (s *Session) Frame() *Frame {
	return s.frame
}

// HitPolicy is the policy the scene currently renders with
func (s *Session) HitPolicy() scene.HitPolicy {
	return s.preset.Scene.HitPolicy()
}

// Start cancels any render in progress and begins a new one in the background
func (s *Session) Start(ctx context.Context) {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.frame = newFrame(s.camera.Width(), s.camera.Height())

	go func(f *Frame, done chan struct{}, axes bool) {
		defer close(done)
		canvas := renderer.NewCanvas(s.camera.Width(), s.camera.Height())
		tileRenderer := renderer.NewTileRenderer(s.raytracer, s.config, s.logger)
		stats, err := tileRenderer.Render(ctx, canvas, f.paintTile)
		if err == nil && axes {
			overlay.New(s.camera, canvas, s.logger).DrawSceneAxes(s.preset.Scene, axisSize, false)
		}
		f.finish(canvas.Image(), stats, err)
	}(s.frame, s.done, s.axes)
}

// Stop cancels the current render and waits for it to wind down
func (s *Session) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

// Wait blocks until the current render is finished
func (s *Session) Wait() {
	if s.done != nil {
		<-s.done
	}
}

// TogglePolicy flips between nearest and farthest hits and re-renders
func (s *Session) TogglePolicy(ctx context.Context) {
	s.Stop()
	next := scene.NearestHit
	if s.preset.Scene.HitPolicy() == scene.NearestHit {
		next = scene.FarthestNearHit
	}
	s.preset.Scene.SetHitPolicy(next)
	s.logger.Printf("Hit policy: %s\n", next)
	s.Start(ctx)
}

// ToggleAxes turns the axes overlay on or off and re-renders
func (s *Session) ToggleAxes(ctx context.Context) {
	s.Stop()
	s.axes = !s.axes
	s.Start(ctx)
}

// Inspect logs what the pixel at image point p sees. p counts rows from the top.
func (s *Session) Inspect(p image.Point) (renderer.PixelInfo, error) {
	info, err := s.raytracer.Inspect(p.X, s.camera.Height()-1-p.Y)
	if err != nil {
		return info, err
	}
	if info.Hit == nil {
		s.logger.Printf("(%d, %d): miss\n", p.X, p.Y)
	} else {
		s.logger.Printf("(%d, %d): %s at %v, distance %.3f\n", p.X, p.Y, info.Shape,
			info.Hit.Near, info.Hit.Near.Distance(info.Ray.Origin))
	}
	return info, nil
}
