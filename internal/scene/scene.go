// Package scene loads lights, occluders and a camera from JSON scene
// files.
package scene

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/logging"
	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// File is the on-disk layout of a scene.
type File struct {
	Name      string         `json:"name"`
	Ambient   *float64       `json:"ambient,omitempty"`
	Camera    CameraData     `json:"camera"`
	Lights    []LightData    `json:"lights"`
	Occluders []OccluderData `json:"occluders"`
}

// CameraData is the view rectangle in world units.
type CameraData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LightData describes one light. Angles are in degrees.
type LightData struct {
	ID           string   `json:"id,omitempty"` // UUID; generated when empty
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Rotation     float64  `json:"rotation"`
	Range        float64  `json:"range"`
	SpotAngle    float64  `json:"spot_angle,omitempty"`
	Intensity    *float64 `json:"intensity,omitempty"`
	Color        string   `json:"color,omitempty"` // RRGGBB
	LineLength   float64  `json:"line_length,omitempty"`
	LayerMask    *uint32  `json:"layer_mask,omitempty"`
	CastsShadows *bool    `json:"casts_shadows,omitempty"`
	Enabled      *bool    `json:"enabled,omitempty"`
}

// OccluderData describes one occluder. Type is polygon, composite or
// tiles; only the matching shape fields are read.
type OccluderData struct {
	Type         string        `json:"type"`
	Static       bool          `json:"static"`
	CastsShadows *bool         `json:"casts_shadows,omitempty"`
	Layer        uint8         `json:"layer"`
	Transform    TransformData `json:"transform"`

	Points [][2]float64   `json:"points,omitempty"`
	Paths  [][][2]float64 `json:"paths,omitempty"`

	TileSize  float64  `json:"tile_size,omitempty"`
	Rows      []string `json:"rows,omitempty"` // '#' marks a solid tile
	Composite *bool    `json:"composite,omitempty"`
}

// TransformData places an occluder: scale, then rotation in degrees,
// then translation.
type TransformData struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	Scale    *float64 `json:"scale,omitempty"`
}

// Matrix returns the affine transform.
func (t TransformData) Matrix() matrix.Matrix {
	s := 1.0
	if t.Scale != nil {
		s = *t.Scale
	}
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	return matrix.Matrix{s * cos, s * sin, -s * sin, s * cos, t.X, t.Y}
}

// Scene is a loaded scene, ready to be handed to a light pass.
type Scene struct {
	Name      string
	Camera    lighting.Camera
	Registry  *lighting.Registry
	Collector *shadows.Collector
	Occluders []*shadows.Occluder
}

// Load reads and builds the scene at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return s, nil
}

// Parse builds a scene from JSON.
func Parse(data []byte) (*Scene, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse scene")
	}
	return f.Build()
}

// Build turns the file description into runtime objects.
func (f *File) Build() (*Scene, error) {
	s := &Scene{
		Name:      f.Name,
		Camera:    lighting.NewCamera(f.Camera.X, f.Camera.Y, f.Camera.Width, f.Camera.Height),
		Registry:  lighting.NewRegistry(),
		Collector: shadows.NewCollector(),
	}
	if f.Ambient != nil {
		s.Registry.SetAmbientLight(*f.Ambient)
	}

	seen := make(map[uuid.UUID]int, len(f.Lights))
	for i := range f.Lights {
		l, err := f.Lights[i].Light()
		if err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}
		if first, dup := seen[l.ID]; dup {
			return nil, errors.Errorf("light %d: id %s already used by light %d", i, l.ID, first)
		}
		seen[l.ID] = i
		s.Registry.Add(l)
	}

	for i := range f.Occluders {
		o, err := f.Occluders[i].Occluder()
		if err != nil {
			return nil, errors.Wrapf(err, "occluder %d", i)
		}
		s.Collector.Add(o)
		s.Occluders = append(s.Occluders, o)
	}

	logging.Logger().Info("scene loaded", "scene", f.Name,
		"lights", s.Registry.Len(), "occluders", len(s.Occluders))
	return s, nil
}

// Light converts the description to a light.
func (d *LightData) Light() (*lighting.Light, error) {
	kind, ok := lighting.ParseKind(d.Kind)
	if !ok {
		return nil, errors.Errorf("unknown light kind %q", d.Kind)
	}

	l := lighting.NewLight(d.Name, kind, vec.Vec2{X: d.X, Y: d.Y}, d.Range)
	if d.ID != "" {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid light id %q", d.ID)
		}
		l.ID = id
	}
	l.Rotation = d.Rotation * math.Pi / 180
	if d.SpotAngle != 0 {
		l.SpotAngle = d.SpotAngle
	}
	if d.Intensity != nil {
		l.Intensity = *d.Intensity
	}
	if d.Color != "" {
		clr, err := parseColor(d.Color)
		if err != nil {
			return nil, err
		}
		l.Color = clr
	}
	l.LineLength = d.LineLength
	if d.LayerMask != nil {
		l.LayerMask = *d.LayerMask
	}
	if d.CastsShadows != nil {
		l.CastsShadows = *d.CastsShadows
	}
	if d.Enabled != nil {
		l.Enabled = *d.Enabled
	}
	return l, nil
}

// Occluder converts the description to an occluder.
func (d *OccluderData) Occluder() (*shadows.Occluder, error) {
	o := &shadows.Occluder{Static: d.Static, CastsShadows: true}
	if d.CastsShadows != nil {
		o.CastsShadows = *d.CastsShadows
	}
	m := d.Transform.Matrix()

	switch d.Type {
	case "polygon":
		if len(d.Points) < 3 {
			return nil, errors.Errorf("polygon needs at least 3 points, got %d", len(d.Points))
		}
		p := shadows.NewPolygon(toVecs(d.Points), d.Layer)
		p.Xform = m
		o.Source = p
	case "composite":
		c := &shadows.CompositeCollider{Xform: m, Layer: d.Layer}
		for _, path := range d.Paths {
			c.Paths = append(c.Paths, toVecs(path))
		}
		o.Source = c
	case "tiles":
		g, err := d.tileGrid()
		if err != nil {
			return nil, err
		}
		g.Xform = m
		o.Source = g
	default:
		return nil, errors.Errorf("unknown occluder type %q", d.Type)
	}
	return o, nil
}

func (d *OccluderData) tileGrid() (*shadows.TileGrid, error) {
	if len(d.Rows) == 0 {
		return nil, errors.New("tile grid has no rows")
	}
	size := d.TileSize
	if size <= 0 {
		size = 1
	}
	width := len(d.Rows[0])
	g := shadows.NewTileGrid(width, len(d.Rows), size, d.Layer)
	for y, row := range d.Rows {
		if len(row) != width {
			return nil, errors.Errorf("tile row %d has %d tiles, want %d", y, len(row), width)
		}
		for x, ch := range row {
			g.SetSolid(x, y, ch == '#')
		}
	}
	if d.Composite != nil {
		g.Composite = *d.Composite
	}
	return g, nil
}

func toVecs(points [][2]float64) []vec.Vec2 {
	out := make([]vec.Vec2, len(points))
	for i, p := range points {
		out[i] = vec.Vec2{X: p[0], Y: p[1]}
	}
	return out
}

// parseColor parses a hex color (format: "RRGGBB")
func parseColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if len(s) != 6 {
		return color.NRGBA{}, errors.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}
