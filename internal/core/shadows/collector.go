package shadows

import (
	"context"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/lumen2d/internal/logging"
)

// Collector walks registered occluders and fills edge pools. It does not
// own occluder lifecycle; hosts Add and Remove occluders as they appear.
type Collector struct {
	occluders []*Occluder

	// warned remembers occluders with uncomposited sources already reported.
	warned map[*Occluder]bool

	// scratch for CollectDynamicParallel
	ranges []int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{warned: make(map[*Occluder]bool)}
}

// Add registers an occluder. Registration order is collection order.
func (c *Collector) Add(o *Occluder) {
	c.occluders = append(c.occluders, o)
}

// Remove unregisters an occluder, keeping the order of the others.
func (c *Collector) Remove(o *Occluder) {
	for i, existing := range c.occluders {
		if existing == o {
			c.occluders = append(c.occluders[:i], c.occluders[i+1:]...)
			delete(c.warned, o)
			return
		}
	}
}

// Occluders returns the registered occluders in registration order.
func (c *Collector) Occluders() []*Occluder {
	return c.occluders
}

// CollectStatic clears pool and appends the edges of every static,
// shadow-casting occluder.
func (c *Collector) CollectStatic(pool *EdgePool) {
	pool.Reset()
	for _, o := range c.occluders {
		if o == nil || !o.Static || !o.CastsShadows {
			continue
		}
		c.collect(o, pool)
	}
	logging.Logger().Info("static occluder edges rebuilt", "edges", pool.Len())
}

// CollectDynamic resets pool to the contents of static and appends the
// edges of every movable, shadow-casting occluder.
func (c *Collector) CollectDynamic(pool, static *EdgePool) {
	pool.ResetTo(static)
	for _, o := range c.occluders {
		if !isMovableCaster(o) {
			continue
		}
		c.collect(o, pool)
	}
	logging.Logger().Debug("dynamic occluder edges collected",
		"static", static.Len(), "total", pool.Len())
}

// CollectDynamicParallel produces the same pool as CollectDynamic, but
// transforms the edges of each movable occluder on its own goroutine. The
// destination range of every occluder is computed before fan-out, so the
// writers never overlap and the output order is unchanged.
func (c *Collector) CollectDynamicParallel(ctx context.Context, pool, static *EdgePool) error {
	pool.ResetTo(static)

	c.ranges = c.ranges[:0]
	total := 0
	for _, o := range c.occluders {
		n := 0
		if isMovableCaster(o) && c.supported(o) {
			n = EdgeCount(o.Source)
		}
		c.ranges = append(c.ranges, total)
		total += n
	}
	tail := pool.grow(total)

	g, ctx := errgroup.WithContext(ctx)
	for i, o := range c.occluders {
		start := c.ranges[i]
		end := total
		if i+1 < len(c.ranges) {
			end = c.ranges[i+1]
		}
		if start == end {
			continue
		}
		src := o.Source
		dst := tail[start:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			emitEdges(src, dst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Drop the partly written tail so the pool holds only static edges.
		pool.ResetTo(static)
		return err
	}

	logging.Logger().Debug("dynamic occluder edges collected in parallel",
		"static", static.Len(), "total", pool.Len())
	return nil
}

func isMovableCaster(o *Occluder) bool {
	return o != nil && !o.Static && o.CastsShadows
}

// supported reports whether the occluder's source yields edges, logging
// uncomposited sources once as a known limitation.
func (c *Collector) supported(o *Occluder) bool {
	src := o.Source
	if src == nil {
		return false
	}
	if src.ShapeKind() != ShapeUncomposited {
		return true
	}
	if !c.warned[o] {
		c.warned[o] = true
		logging.Logger().Warn("occluder has no compositing information, skipping",
			"kind", src.ShapeKind().String())
	}
	return false
}

func (c *Collector) collect(o *Occluder, pool *EdgePool) {
	if !c.supported(o) {
		return
	}
	n := EdgeCount(o.Source)
	if n == 0 {
		return
	}
	emitEdges(o.Source, pool.grow(n))
}
