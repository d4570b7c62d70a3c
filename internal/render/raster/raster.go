// Package raster draws light volumes and occluder edges into an in-memory
// RGBA image, for headless baking and tests.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// Canvas is a CPU render target. World coordinates are mapped to pixels
// with View.
type Canvas struct {
	img  *image.RGBA
	rast *vector.Rasterizer

	// View maps world coordinates to pixel coordinates.
	View matrix.Matrix
}

// NewCanvas creates a transparent canvas with an identity view.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		rast: vector.NewRasterizer(width, height),
		View: matrix.Identity,
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Fill paints the whole canvas with clr.
func (c *Canvas) Fill(clr color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{}, draw.Src)
}

func (c *Canvas) reset() {
	b := c.img.Bounds()
	c.rast.Reset(b.Dx(), b.Dy())
	c.rast.DrawOp = draw.Over
}

func (c *Canvas) moveTo(p vec.Vec2) {
	q := shadows.TransformPoint(c.View, p)
	c.rast.MoveTo(float32(q.X), float32(q.Y))
}

func (c *Canvas) lineTo(p vec.Vec2) {
	q := shadows.TransformPoint(c.View, p)
	c.rast.LineTo(float32(q.X), float32(q.Y))
}

// FillVolume composites the light volume of l with a radial falloff from
// the light origin to its range.
func (c *Canvas) FillVolume(vol *shadows.LightVolume, l *lighting.Light) {
	if len(vol.Indices) == 0 {
		return
	}
	c.reset()
	// Fan triangles share one winding, so a single path covers the volume
	// without seams.
	for i := 0; i+2 < len(vol.Indices); i += 3 {
		c.moveTo(vol.Vertices[vol.Indices[i]])
		c.lineTo(vol.Vertices[vol.Indices[i+1]])
		c.lineTo(vol.Vertices[vol.Indices[i+2]])
		c.rast.ClosePath()
	}

	src := &radial{
		center: shadows.TransformPoint(c.View, l.Position),
		radius: l.Range * viewScale(c.View),
		color:  l.Color,
		gain:   math.Min(1, l.Intensity),
	}
	c.rast.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

// StrokeEdges draws every edge as a quad of the given pixel width.
func (c *Canvas) StrokeEdges(edges []shadows.Edge, width float64, clr color.Color) {
	if len(edges) == 0 {
		return
	}
	c.reset()
	half := width / 2
	for _, e := range edges {
		a := shadows.TransformPoint(c.View, e.A)
		b := shadows.TransformPoint(c.View, e.B)
		n := shadows.Normalize(b.Sub(a))
		if n == (vec.Vec2{}) {
			continue
		}
		side := vec.Vec2{X: -n.Y, Y: n.X}.Mul(half)
		quad := [4]vec.Vec2{a.Add(side), b.Add(side), b.Sub(side), a.Sub(side)}
		c.rast.MoveTo(float32(quad[0].X), float32(quad[0].Y))
		for _, q := range quad[1:] {
			c.rast.LineTo(float32(q.X), float32(q.Y))
		}
		c.rast.ClosePath()
	}
	c.rast.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{})
}

// viewScale returns the length a unit world vector has after the view
// transform, assuming uniform scale.
func viewScale(m matrix.Matrix) float64 {
	return math.Hypot(m[0], m[1])
}

// radial is an image whose color fades from the center to transparent at
// radius.
type radial struct {
	center vec.Vec2
	radius float64
	color  color.NRGBA
	gain   float64
}

func (r *radial) ColorModel() color.Model { return color.NRGBAModel }

func (r *radial) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (r *radial) At(x, y int) color.Color {
	if r.radius <= 0 {
		return color.NRGBA{}
	}
	p := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	f := 1 - shadows.Distance(r.center, p)/r.radius
	if f <= 0 {
		return color.NRGBA{}
	}
	c := r.color
	c.A = uint8(math.Round(float64(c.A) * f * r.gain))
	return c
}
