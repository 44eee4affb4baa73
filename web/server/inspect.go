package server

import (
	"fmt"
	"image/color"
	"net/http"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	X            int                    `json:"x"` // Image column
	Y            int                    `json:"y"` // Image row, top-down
	Shape        string                 `json:"shape,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Near         [3]float64             `json:"near"`
	Far          [3]float64             `json:"far"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	RayOrigin    [3]float64             `json:"rayOrigin"`
	RayDirection [3]float64             `json:"rayDirection"`
	Color        string                 `json:"color"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// handleInspect reports what the ray through one image pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	query := r.URL.Query()
	x, err := parseIntParam(query, "x", -1, 0, req.Width-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, req.Height-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if x < 0 || y < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required"})
		return
	}

	p, err := s.setupPipeline(req, core.NopLogger{})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Pixel rows count up from the bottom of the image
	info, err := p.raytracer.Inspect(x, req.Height-1-y)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response := InspectResponse{
		X:            x,
		Y:            y,
		RayOrigin:    vecArray(info.Ray.Origin),
		RayDirection: vecArray(info.Ray.Direction),
		Color:        hexColor(info.Color),
	}
	if info.Hit != nil {
		response.Hit = true
		response.Shape = info.Shape
		response.Near = vecArray(info.Hit.Near)
		response.Far = vecArray(info.Hit.Far)
		response.Normal = vecArray(info.Hit.Normal)
		response.Distance = info.Hit.Near.Distance(info.Ray.Origin)
		if shape, ok := p.preset.Scene.Shape(info.Shape); ok {
			response.GeometryType, response.Properties = extractGeometryInfo(shape)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// extractGeometryInfo extracts geometry-specific information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch s := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(s.Center())
		properties["radius"] = s.Radius()
		return "sphere", properties

	case *geometry.Plane:
		properties["center"] = vecArray(s.Pose().Position())
		properties["normal"] = vecArray(s.Normal())
		properties["infinite"] = s.IsInfinite()
		if !s.IsInfinite() {
			xDim, yDim := s.Dimensions()
			properties["width"] = xDim
			properties["height"] = yDim
		}
		return "plane", properties

	default:
		return "unknown", properties
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
