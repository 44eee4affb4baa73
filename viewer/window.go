//go:build cgo

package main

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/preview"
)

// runWindow opens the window and blocks until it is closed
func runWindow(session *preview.Session, scale int, logger core.Logger) error {
	if scale < 1 {
		scale = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	width, height := session.Size()
	w := &window{
		session: session,
		logger:  logger,
		ctx:     ctx,
		image:   ebiten.NewImage(width, height),
		serial:  -1,
	}
	session.Start(ctx)
	defer session.Stop()

	ebiten.SetWindowTitle("Ray Caster")
	ebiten.SetWindowSize(width*scale, height*scale)
	return ebiten.RunGame(w)
}

// window is the ebiten game showing the session's current frame
type window struct {
	session *preview.Session
	logger  core.Logger
	ctx     context.Context
	image   *ebiten.Image
	frame   *preview.Frame
	serial  int
}

func (w *window) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		w.session.TogglePolicy(w.ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		w.session.ToggleAxes(w.ctx)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		if _, err := w.session.Inspect(image.Pt(x, y)); err != nil {
			w.logger.Printf("%v\n", err)
		}
	}

	if w.frame != w.session.Frame() {
		w.frame = w.session.Frame()
		w.serial = -1
	}
	if pix, serial, changed := w.frame.Snapshot(w.serial); changed {
		w.image.WritePixels(pix)
		w.serial = serial
	}
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.DrawImage(w.image, nil)
	ebitenutil.DebugPrint(screen, w.session.HitPolicy().String()+" | "+w.frame.Status())
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.session.Size()
}
