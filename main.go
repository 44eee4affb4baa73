package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/overlay"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
	"github.com/df07/go-raycaster/pkg/sink"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// axisSize is the length of the debug axes drawn at every shape and light
const axisSize = 0.5

// options holds everything the command line controls
type options struct {
	Scene    string
	Width    int
	Height   int
	Workers  int
	TileSize int
	Policy   string
	Axes     bool
	Labels   bool
	Out      string
	Thumb    uint
	S3Key    string
}

func main() {
	var opts options
	flag.StringVar(&opts.Scene, "scene", "sphere", "Built-in scene id or path to a .json scene file")
	flag.IntVar(&opts.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.Height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&opts.TileSize, "tile", 64, "Tile size in pixels")
	flag.StringVar(&opts.Policy, "policy", "", "Hit policy: 'nearest' or 'farthest' (default: scene setting)")
	flag.BoolVar(&opts.Axes, "axes", true, "Draw the axes of every shape and light")
	flag.BoolVar(&opts.Labels, "label", false, "Label shapes and lights with their names")
	flag.StringVar(&opts.Out, "out", "", "Output file (default output/<scene>/render_<timestamp>.png)")
	flag.UintVar(&opts.Thumb, "thumb", 0, "Also write a thumbnail no larger than this many pixels")
	flag.StringVar(&opts.S3Key, "s3-key", "", "Also upload the render to S3 under this key (settings from .env)")
	envFile := flag.String("env", ".env", "Environment file with S3 settings")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Ray Caster")
		fmt.Println("Usage: raycaster [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}
	if *list {
		printScenes()
		return
	}

	// Missing .env is fine, the environment may already be set
	_ = godotenv.Load(*envFile)

	logger := renderer.NewDefaultLogger()
	if _, err := run(context.Background(), opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printScenes() {
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}
	files, err := scene.ListSceneFiles("scenes", renderer.NewDefaultLogger())
	if err != nil {
		return
	}
	for _, info := range files {
		fmt.Printf("  %-12s %s\n", info.FilePath, info.Name)
	}
}

// createScene resolves a built-in id or a scene file path
func createScene(sceneType string, logger core.Logger) (scene.Preset, error) {
	if sceneType == "" {
		return scene.Preset{}, errors.New("no scene given")
	}
	if strings.HasSuffix(sceneType, ".json") {
		return loaders.LoadSceneFile(sceneType, logger)
	}
	return scene.Lookup(sceneType, logger)
}

// createOutputPath names the default output file for a scene
func createOutputPath(sceneType string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// run renders the selected scene and writes every requested output. It
// returns the path of the main image.
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	preset, err := createScene(opts.Scene, logger)
	if err != nil {
		return "", err
	}
	if opts.Width != 0 || opts.Height != 0 {
		width, height := preset.Camera.Width, preset.Camera.Height
		if opts.Width != 0 {
			width = opts.Width
		}
		if opts.Height != 0 {
			height = opts.Height
		}
		if preset, err = preset.WithSize(width, height); err != nil {
			return "", err
		}
	}
	if opts.Policy != "" {
		policy, err := scene.ParseHitPolicy(opts.Policy)
		if err != nil {
			return "", err
		}
		preset.Scene.SetHitPolicy(policy)
	}

	camera, err := geometry.NewCamera(preset.Camera)
	if err != nil {
		return "", err
	}

	logger.Printf("Rendering scene %q (%s, %dx%d, %s hits)...\n", opts.Scene,
		camera.Projection().Name(), camera.Width(), camera.Height(), preset.Scene.HitPolicy())

	raytracer := renderer.NewRaytracer(preset.Scene, camera, preset.Background)
	tileRenderer := renderer.NewTileRenderer(raytracer, renderer.RenderConfig{
		TileSize:   opts.TileSize,
		NumWorkers: opts.Workers,
	}, logger)

	canvas := renderer.NewCanvas(camera.Width(), camera.Height())
	stats, err := tileRenderer.Render(ctx, canvas, nil)
	if err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}
	for _, name := range preset.Scene.ShapeNames() {
		logger.Printf("  %s: %d pixels\n", name, stats.ShapeHits[name])
	}

	drawDebugOverlay(preset.Scene, camera, canvas, opts, logger)

	out := opts.Out
	if out == "" {
		out = createOutputPath(opts.Scene, time.Now())
	}
	if err := writeOutputs(ctx, canvas.Image(), out, opts, logger); err != nil {
		return "", err
	}
	return out, nil
}

// drawDebugOverlay draws the pose axes and optional name labels of every shape and light
func drawDebugOverlay(s *scene.Scene, camera *geometry.Camera, canvas *renderer.Canvas, opts options, logger core.Logger) {
	if !opts.Axes && !opts.Labels {
		return
	}
	size := 0.0
	if opts.Axes {
		size = axisSize
	}
	overlay.New(camera, canvas, logger).DrawSceneAxes(s, size, opts.Labels)
}

// writeOutputs saves the image, its thumbnail and the S3 copy concurrently
func writeOutputs(ctx context.Context, img image.Image, out string, opts options, logger core.Logger) error {
	files := sink.NewFileSink("")
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := files.Write(ctx, out, img); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", out)
		return nil
	})

	if opts.Thumb > 0 {
		thumbPath := filepath.Join(filepath.Dir(out), "thumb_"+filepath.Base(out))
		g.Go(func() error {
			if err := files.Write(ctx, thumbPath, sink.Thumbnail(img, opts.Thumb)); err != nil {
				return err
			}
			logger.Printf("Thumbnail saved as %s\n", thumbPath)
			return nil
		})
	}

	if opts.S3Key != "" {
		g.Go(func() error {
			s3Sink, err := sink.NewS3Sink(sink.S3ConfigFromEnv(), logger)
			if err != nil {
				return err
			}
			return s3Sink.Write(ctx, opts.S3Key, img)
		})
	}

	return g.Wait()
}
