package shadows

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Coord represents a tile coordinate (or a tile corner when tracing).
type Coord struct {
	X, Y int
}

// TileGrid is a grid of solid tiles used as an occluder. With Composite
// set, contiguous solid regions are merged into closed outline paths and
// the grid acts as a composite collider. Without it the grid is reported
// as uncomposited and contributes no edges.
type TileGrid struct {
	Width, Height int
	TileSize      float64
	Composite     bool
	Xform         matrix.Matrix
	Layer         uint8

	solid []bool
	paths [][]vec.Vec2
	dirty bool
}

// NewTileGrid creates an empty composited grid with the identity transform.
func NewTileGrid(width, height int, tileSize float64, layer uint8) *TileGrid {
	return &TileGrid{
		Width:     width,
		Height:    height,
		TileSize:  tileSize,
		Composite: true,
		Xform:     matrix.Identity,
		Layer:     layer,
		solid:     make([]bool, width*height),
		dirty:     true,
	}
}

// SetSolid marks a tile as blocking or clear. Out-of-range tiles are ignored.
func (g *TileGrid) SetSolid(x, y int, solid bool) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	if g.solid[y*g.Width+x] != solid {
		g.solid[y*g.Width+x] = solid
		g.dirty = true
	}
}

// Solid reports whether the tile blocks light. Tiles outside the grid are clear.
func (g *TileGrid) Solid(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.solid[y*g.Width+x]
}

func (g *TileGrid) ShapeKind() ShapeKind {
	if g.Composite {
		return ShapeCompositePaths
	}
	return ShapeUncomposited
}

func (g *TileGrid) SimpleShape() []vec.Vec2  { return nil }
func (g *TileGrid) Transform() matrix.Matrix { return g.Xform }
func (g *TileGrid) OwnerLayer() uint8        { return g.Layer }

// PathCount returns the number of composited outlines.
func (g *TileGrid) PathCount() int {
	g.rebuild()
	return len(g.paths)
}

// Path returns the i-th composited outline in grid-local units.
func (g *TileGrid) Path(i int) []vec.Vec2 {
	g.rebuild()
	return g.paths[i]
}

func (g *TileGrid) rebuild() {
	if !g.dirty {
		return
	}
	g.dirty = false
	g.paths = g.paths[:0]

	for _, region := range g.findContiguousRegions() {
		edges := g.extractPerimeterEdges(region)
		for _, loop := range traceLoops(edges) {
			path := make([]vec.Vec2, len(loop))
			for i, c := range loop {
				path[i] = vec.Vec2{X: float64(c.X) * g.TileSize, Y: float64(c.Y) * g.TileSize}
			}
			g.paths = append(g.paths, path)
		}
	}
}

// findContiguousRegions identifies all 4-connected regions of solid tiles
func (g *TileGrid) findContiguousRegions() [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !g.Solid(x, y) {
				continue
			}
			regions = append(regions, g.floodFill(coord, visited))
		}
	}

	return regions
}

// floodFill performs BFS to find all connected solid tiles
func (g *TileGrid) floodFill(start Coord, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := [4]Coord{
			{X: current.X, Y: current.Y - 1}, // North
			{X: current.X + 1, Y: current.Y}, // East
			{X: current.X, Y: current.Y + 1}, // South
			{X: current.X - 1, Y: current.Y}, // West
		}

		for _, neighbor := range neighbors {
			if visited[neighbor] || !g.Solid(neighbor.X, neighbor.Y) {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// cornerEdge is a directed boundary edge between two tile corners. Edges
// run clockwise on screen (y down), so the solid tile is on the right.
type cornerEdge struct {
	a, b Coord
}

// extractPerimeterEdges finds all exposed tile edges of a region
func (g *TileGrid) extractPerimeterEdges(region []Coord) []cornerEdge {
	var edges []cornerEdge

	for _, c := range region {
		x, y := c.X, c.Y

		// Top edge
		if !g.Solid(x, y-1) {
			edges = append(edges, cornerEdge{Coord{x, y}, Coord{x + 1, y}})
		}
		// Right edge
		if !g.Solid(x+1, y) {
			edges = append(edges, cornerEdge{Coord{x + 1, y}, Coord{x + 1, y + 1}})
		}
		// Bottom edge
		if !g.Solid(x, y+1) {
			edges = append(edges, cornerEdge{Coord{x + 1, y + 1}, Coord{x, y + 1}})
		}
		// Left edge
		if !g.Solid(x-1, y) {
			edges = append(edges, cornerEdge{Coord{x, y + 1}, Coord{x, y}})
		}
	}

	return edges
}

// traceLoops chains directed boundary edges into closed loops and merges
// colinear runs, so each loop only keeps its corner points. Where two
// loops touch diagonally the sharpest clockwise turn is taken, which
// keeps the loops separate.
func traceLoops(edges []cornerEdge) [][]Coord {
	outgoing := make(map[Coord][]int, len(edges))
	for i, e := range edges {
		outgoing[e.a] = append(outgoing[e.a], i)
	}
	used := make([]bool, len(edges))

	var loops [][]Coord
	for first := range edges {
		if used[first] {
			continue
		}

		var loop []Coord
		cur := first
		for {
			used[cur] = true
			loop = append(loop, edges[cur].a)

			next := -1
			bestRank := 3
			din := delta(edges[cur])
			for _, cand := range outgoing[edges[cur].b] {
				if used[cand] {
					continue
				}
				if r := turnRank(din, delta(edges[cand])); r < bestRank {
					bestRank = r
					next = cand
				}
			}
			if next < 0 {
				break
			}
			cur = next
		}

		if merged := mergeColinear(loop); len(merged) >= 3 {
			loops = append(loops, merged)
		}
	}
	return loops
}

func delta(e cornerEdge) Coord {
	return Coord{X: e.b.X - e.a.X, Y: e.b.Y - e.a.Y}
}

// turnRank orders candidate continuations: clockwise turn, straight on,
// counter-clockwise turn.
func turnRank(din, dout Coord) int {
	c := din.X*dout.Y - din.Y*dout.X
	switch {
	case c > 0:
		return 0
	case c == 0:
		return 1
	default:
		return 2
	}
}

// mergeColinear drops loop points that lie on a straight run.
func mergeColinear(loop []Coord) []Coord {
	n := len(loop)
	if n < 3 {
		return loop
	}
	result := make([]Coord, 0, n)
	for i := 0; i < n; i++ {
		prev := loop[(i+n-1)%n]
		cur := loop[i]
		next := loop[(i+1)%n]
		din := Coord{X: cur.X - prev.X, Y: cur.Y - prev.Y}
		dout := Coord{X: next.X - cur.X, Y: next.Y - cur.Y}
		if din.X*dout.Y-din.Y*dout.X == 0 {
			continue
		}
		result = append(result, cur)
	}
	return result
}
