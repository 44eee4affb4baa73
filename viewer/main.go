// Command viewer shows a scene in a desktop window while it renders.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/preview"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "sphere", "Built-in scene id or path to a .json scene file")
	width := flag.Int("width", 600, "Image width")
	height := flag.Int("height", 600, "Image height")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	tileSize := flag.Int("tile", 32, "Tile size in pixels")
	policy := flag.String("policy", "", "Hit policy: 'nearest' or 'farthest' (default: scene setting)")
	axes := flag.Bool("axes", true, "Draw the axes of every shape and light")
	scale := flag.Int("scale", 1, "Window pixels per image pixel")
	flag.Parse()

	logger := renderer.NewDefaultLogger()
	session, err := setup(*sceneType, *width, *height, *policy, renderer.RenderConfig{
		TileSize:   *tileSize,
		NumWorkers: *workers,
	}, *axes, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Keys: P toggles hit policy, A toggles axes, click inspects a pixel, Esc quits\n")
	if err := runWindow(session, *scale, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the scene, applies the size and policy overrides and builds the preview session
func setup(sceneType string, width, height int, policy string, config renderer.RenderConfig, axes bool, logger core.Logger) (*preview.Session, error) {
	var preset scene.Preset
	var err error
	if strings.HasSuffix(sceneType, ".json") {
		preset, err = loaders.LoadSceneFile(sceneType, logger)
	} else {
		preset, err = scene.Lookup(sceneType, logger)
	}
	if err != nil {
		return nil, err
	}

	if preset, err = preset.WithSize(width, height); err != nil {
		return nil, err
	}
	if policy != "" {
		p, err := scene.ParseHitPolicy(policy)
		if err != nil {
			return nil, err
		}
		preset.Scene.SetHitPolicy(p)
	}
	return preview.NewSession(preset, config, axes, logger)
}
