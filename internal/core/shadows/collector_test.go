package shadows

import (
	"context"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func square(x, y, size float64) []vec.Vec2 {
	return []vec.Vec2{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func TestCollectStaticSimplePolygon(t *testing.T) {
	c := NewCollector()
	poly := NewPolygon(square(0, 0, 2), 3)
	poly.Xform = matrix.Matrix{1, 0, 0, 1, 10, 5}
	c.Add(&Occluder{Source: poly, Static: true, CastsShadows: true})

	pool := NewEdgePool(0)
	c.CollectStatic(pool)

	if pool.Len() != 4 {
		t.Fatalf("Expected 4 edges, got %d", pool.Len())
	}
	edges := pool.Edges()
	want := []Edge{
		{A: vec.Vec2{X: 10, Y: 5}, B: vec.Vec2{X: 12, Y: 5}, Layer: 3},
		{A: vec.Vec2{X: 12, Y: 5}, B: vec.Vec2{X: 12, Y: 7}, Layer: 3},
		{A: vec.Vec2{X: 12, Y: 7}, B: vec.Vec2{X: 10, Y: 7}, Layer: 3},
		{A: vec.Vec2{X: 10, Y: 7}, B: vec.Vec2{X: 10, Y: 5}, Layer: 3},
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
}

func TestCollectStaticSkipsMovableAndNonCasting(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), Static: true, CastsShadows: false})
	c.Add(&Occluder{Source: NewPolygon(square(5, 5, 1), 0), Static: false, CastsShadows: true})
	c.Add(&Occluder{Source: NewPolygon(square(9, 9, 1), 0), Static: true, CastsShadows: true})

	pool := NewEdgePool(0)
	c.CollectStatic(pool)
	if pool.Len() != 4 {
		t.Fatalf("Expected only the static caster's 4 edges, got %d", pool.Len())
	}
	if pool.Edges()[0].A != (vec.Vec2{X: 9, Y: 9}) {
		t.Errorf("Expected first edge to start at (9,9), got %v", pool.Edges()[0].A)
	}
}

func TestCollectCompositeSkipsEmptyPaths(t *testing.T) {
	c := NewCollector()
	composite := &CompositeCollider{
		Paths: [][]vec.Vec2{square(0, 0, 1), nil, {{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 6}}},
		Xform: matrix.Identity,
		Layer: 1,
	}
	c.Add(&Occluder{Source: composite, Static: true, CastsShadows: true})

	pool := NewEdgePool(0)
	c.CollectStatic(pool)
	if pool.Len() != 7 {
		t.Fatalf("Expected 4+3 edges, got %d", pool.Len())
	}
	last := pool.Edges()[6]
	if last.A != (vec.Vec2{X: 5, Y: 6}) || last.B != (vec.Vec2{X: 5, Y: 5}) {
		t.Errorf("Expected closing edge (5,6)->(5,5), got %v", last)
	}
}

func TestCollectSkipsUncomposited(t *testing.T) {
	grid := NewTileGrid(2, 2, 1, 0)
	grid.SetSolid(0, 0, true)
	grid.Composite = false

	c := NewCollector()
	c.Add(&Occluder{Source: grid, Static: true, CastsShadows: true})

	pool := NewEdgePool(0)
	c.CollectStatic(pool)
	if pool.Len() != 0 {
		t.Errorf("Expected uncomposited grid to be skipped, got %d edges", pool.Len())
	}
}

func TestCollectDynamicWithoutMovablesReproducesStatic(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), Static: true, CastsShadows: true})
	c.Add(&Occluder{Source: NewPolygon(square(3, 3, 2), 2), Static: true, CastsShadows: true})

	static := NewEdgePool(0)
	c.CollectStatic(static)
	dynamic := NewEdgePool(0)
	c.CollectDynamic(dynamic, static)

	if dynamic.Len() != static.Len() {
		t.Fatalf("Expected %d edges, got %d", static.Len(), dynamic.Len())
	}
	for i, e := range static.Edges() {
		if dynamic.Edges()[i] != e {
			t.Errorf("edge %d: expected %v, got %v", i, e, dynamic.Edges()[i])
		}
	}
}

func TestCollectDynamicAppendsMovables(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), Static: true, CastsShadows: true})
	mover := &Occluder{Source: NewPolygon(square(5, 0, 1), 1), CastsShadows: true}
	c.Add(mover)

	static := NewEdgePool(0)
	c.CollectStatic(static)
	dynamic := NewEdgePool(0)
	c.CollectDynamic(dynamic, static)

	if dynamic.Len() != 8 {
		t.Fatalf("Expected 8 edges, got %d", dynamic.Len())
	}
	if dynamic.Len() < static.Len() {
		t.Errorf("dynamic pool shorter than static pool")
	}
	if dynamic.Edges()[4].Layer != 1 {
		t.Errorf("Expected movable edges after static ones, got layer %d", dynamic.Edges()[4].Layer)
	}
}

func TestCollectDynamicShrinksWithoutReallocating(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), Static: true, CastsShadows: true})
	mover := &Occluder{Source: NewPolygon(square(5, 0, 1), 1), CastsShadows: true}
	c.Add(mover)

	static := NewEdgePool(0)
	c.CollectStatic(static)
	dynamic := NewEdgePool(0)
	c.CollectDynamic(dynamic, static)
	capBefore := dynamic.Cap()
	first := &dynamic.Edges()[0]

	c.Remove(mover)
	c.CollectDynamic(dynamic, static)

	if dynamic.Len() != 4 {
		t.Fatalf("Expected pool truncated to 4 edges, got %d", dynamic.Len())
	}
	if dynamic.Cap() != capBefore {
		t.Errorf("Expected capacity %d to be retained, got %d", capBefore, dynamic.Cap())
	}
	if &dynamic.Edges()[0] != first {
		t.Error("Expected the pool to be truncated in place")
	}
	if got := c.Occluders(); len(got) != 1 || got[0].Source.OwnerLayer() != 0 {
		t.Errorf("Expected only the static occluder to remain, got %d", len(got))
	}
}

func TestResetToTracksSourceGeneration(t *testing.T) {
	static := NewEdgePool(0)
	static.Append(Edge{B: vec.Vec2{X: 1}})

	pool := NewEdgePool(0)
	pool.ResetTo(static)
	gen := pool.Generation()
	pool.Append(Edge{B: vec.Vec2{Y: 1}})

	pool.ResetTo(static)
	if pool.Generation() != gen {
		t.Errorf("Expected truncation to keep generation %d, got %d", gen, pool.Generation())
	}

	staticGen := static.Generation()
	static.Reset()
	static.Append(Edge{B: vec.Vec2{X: 2}})
	if static.Generation() == staticGen {
		t.Error("Expected Reset to start a new generation")
	}

	pool.ResetTo(static)
	if pool.Generation() == gen {
		t.Error("Expected a copy from a rebuilt source to start a new generation")
	}
	if pool.Len() != 1 || pool.Edges()[0] != static.Edges()[0] {
		t.Errorf("Expected pool to mirror the rebuilt source, got %v", pool.Edges())
	}
}

func TestCollectDynamicSeesStaticRebuild(t *testing.T) {
	c := NewCollector()
	poly := NewPolygon(square(0, 0, 1), 0)
	c.Add(&Occluder{Source: poly, Static: true, CastsShadows: true})

	static := NewEdgePool(0)
	c.CollectStatic(static)
	dynamic := NewEdgePool(0)
	c.CollectDynamic(dynamic, static)

	// Same edge count, different geometry: the stale prefix must be replaced.
	poly.Points = square(7, 7, 1)
	c.CollectStatic(static)
	c.CollectDynamic(dynamic, static)

	if dynamic.Edges()[0].A != (vec.Vec2{X: 7, Y: 7}) {
		t.Errorf("Expected rebuilt static edges, got %v", dynamic.Edges()[0])
	}
}

func TestCollectDynamicParallelMatchesSequential(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), Static: true, CastsShadows: true})
	for i := 0; i < 16; i++ {
		poly := NewPolygon(square(float64(i)*3, 10, 1), uint8(i))
		c.Add(&Occluder{Source: poly, CastsShadows: i%3 != 0})
	}
	grid := NewTileGrid(3, 3, 2, 7)
	grid.SetSolid(1, 1, true)
	c.Add(&Occluder{Source: grid, CastsShadows: true})

	static := NewEdgePool(0)
	c.CollectStatic(static)

	sequential := NewEdgePool(0)
	c.CollectDynamic(sequential, static)

	parallel := NewEdgePool(0)
	if err := c.CollectDynamicParallel(context.Background(), parallel, static); err != nil {
		t.Fatalf("CollectDynamicParallel failed: %v", err)
	}

	if parallel.Len() != sequential.Len() {
		t.Fatalf("Expected %d edges, got %d", sequential.Len(), parallel.Len())
	}
	for i, e := range sequential.Edges() {
		if parallel.Edges()[i] != e {
			t.Errorf("edge %d: expected %v, got %v", i, e, parallel.Edges()[i])
		}
	}
}

func TestCollectDynamicParallelCancelled(t *testing.T) {
	c := NewCollector()
	c.Add(&Occluder{Source: NewPolygon(square(0, 0, 1), 0), CastsShadows: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Add(&Occluder{Source: NewPolygon(square(5, 5, 1), 0), Static: true, CastsShadows: true})

	static := NewEdgePool(0)
	c.CollectStatic(static)
	pool := NewEdgePool(0)
	if err := c.CollectDynamicParallel(ctx, pool, static); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
	if pool.Len() != static.Len() {
		t.Fatalf("Expected pool truncated to %d static edges, got %d", static.Len(), pool.Len())
	}
	for i, e := range static.Edges() {
		if pool.Edges()[i] != e {
			t.Errorf("edge %d: expected %v, got %v", i, e, pool.Edges()[i])
		}
	}
}
