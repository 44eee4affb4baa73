package loaders

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/scene"
)

const twoSpheres = `{
  "name": "Two Spheres",
  "width": 64,
  "height": 48,
  "background": "#102030",
  "hitPolicy": "farthest",
  "camera": {"projection": "perspective", "fovDeg": 60, "eye": [0, 0, 0], "target": [0, 0, -1]},
  "shapes": [
    {"name": "front", "type": "sphere", "position": [0, 0, -5], "radius": 1},
    {"name": "back", "type": "sphere", "position": [0, 0, -10], "radius": 2},
    {"name": "floor", "type": "plane", "position": [0, -3, 0], "width": 10, "height": 10}
  ],
  "lights": [
    {"name": "key", "position": [0, 5, 0]}
  ]
}`

func TestParseSceneFileDefaults(t *testing.T) {
	file, err := ParseSceneFile([]byte(`{"shapes": [{"name": "s", "type": "sphere", "radius": 1}]}`))
	if err != nil {
		t.Fatalf("ParseSceneFile() error: %v", err)
	}
	if file.Width != defaultWidth || file.Height != defaultHeight {
		t.Errorf("Default size = %dx%d", file.Width, file.Height)
	}
}

func TestSceneFileBuild(t *testing.T) {
	file, err := ParseSceneFile([]byte(twoSpheres))
	if err != nil {
		t.Fatalf("ParseSceneFile() error: %v", err)
	}
	preset, err := file.Build(nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if preset.Background != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("Background = %v", preset.Background)
	}
	if preset.Scene.HitPolicy() != scene.FarthestNearHit {
		t.Errorf("HitPolicy = %v", preset.Scene.HitPolicy())
	}
	if got := len(preset.Scene.ShapeNames()); got != 3 {
		t.Errorf("Shape count = %d, want 3", got)
	}
	if _, ok := preset.Scene.Light("key"); !ok {
		t.Error("Light key missing")
	}

	persp, ok := preset.Camera.Projection.(*geometry.Perspective)
	if !ok {
		t.Fatalf("Projection = %T, want perspective", preset.Camera.Projection)
	}
	if persp.Aspect != 64.0/48.0 {
		t.Errorf("Aspect = %g", persp.Aspect)
	}

	// The farthest policy picks the back sphere along the view axis
	camera, err := geometry.NewCamera(preset.Camera)
	if err != nil {
		t.Fatalf("NewCamera() error: %v", err)
	}
	name, _, ok := preset.Scene.RayCastNamed(camera.Unproject(32, 24))
	if !ok || name != "back" {
		t.Errorf("Centre ray hit %q, want back", name)
	}
}

func TestSceneFilePlaneFacesNormal(t *testing.T) {
	shape, err := ShapeCfg{Name: "wall", Type: "plane", Position: Vec3{0, 0, -4}, Normal: &Vec3{0, 0, 1}}.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	hit, ok := shape.RayCast(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Ray towards the wall should hit")
	}
	if hit.Normal.Distance(core.NewVec3(0, 0, 1)) > 1e-9 {
		t.Errorf("Normal = %v, want +Z", hit.Normal)
	}

	floor, err := ShapeCfg{Name: "floor", Type: "plane", Position: Vec3{0, -1, 0}}.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !floor.(*geometry.Plane).IsInfinite() {
		t.Error("Plane without extents should be infinite")
	}
	if floor.(*geometry.Plane).Normal().Distance(core.NewVec3(0, 1, 0)) > 1e-9 {
		t.Errorf("Default normal = %v, want +Y", floor.(*geometry.Plane).Normal())
	}
}

func TestSceneFileErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"shapes": [`},
		{"no shapes", `{"shapes": []}`},
		{"unknown shape", `{"shapes": [{"name": "c", "type": "cone"}]}`},
		{"unnamed shape", `{"shapes": [{"type": "sphere", "radius": 1}]}`},
		{"bad radius", `{"shapes": [{"name": "s", "type": "sphere", "radius": -1}]}`},
		{"bad colour", `{"background": "#12345", "shapes": [{"name": "s", "type": "sphere", "radius": 1}]}`},
		{"bad policy", `{"hitPolicy": "closest", "shapes": [{"name": "s", "type": "sphere", "radius": 1}]}`},
		{"bad projection", `{"camera": {"projection": "fisheye", "target": [0, 0, -1]}, "shapes": [{"name": "s", "type": "sphere", "radius": 1}]}`},
		{"eye on target", `{"camera": {"eye": [1, 1, 1], "target": [1, 1, 1]}, "shapes": [{"name": "s", "type": "sphere", "radius": 1}]}`},
		{"unnamed light", `{"shapes": [{"name": "s", "type": "sphere", "radius": 1}], "lights": [{"position": [0, 1, 0]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseSceneFile([]byte(tt.json))
			if err == nil {
				_, err = file.Build(nil)
			}
			if err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two-spheres.json")
	if err := os.WriteFile(path, []byte(twoSpheres), 0o644); err != nil {
		t.Fatal(err)
	}

	preset, err := LoadSceneFile(path, nil)
	if err != nil {
		t.Fatalf("LoadSceneFile() error: %v", err)
	}
	if preset.Camera.Width != 64 || preset.Camera.Height != 48 {
		t.Errorf("Size = %dx%d", preset.Camera.Width, preset.Camera.Height)
	}

	if _, err := LoadSceneFile(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.RGBA
	}{
		{"#0096c8", color.RGBA{0, 150, 200, 255}},
		{"ffffff", color.RGBA{255, 255, 255, 255}},
		{"#f00", color.RGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "#12", "#ggg", "#1234567"} {
		if _, err := ParseHexColor(bad); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("ParseHexColor(%q) error = %v", bad, err)
		}
	}
}
