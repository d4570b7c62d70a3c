package lighting

import (
	"chosenoffset.com/lumen2d/internal/logging"
)

// Convention describes how a backend orients the v axis of the shadow map
// relative to clip space.
type Convention uint8

const (
	// ConventionVAxisMatchesClip is the OpenGL family: reading and writing
	// use the same orientation.
	ConventionVAxisMatchesClip Convention = iota
	// ConventionVInverted backends read rows from the top, so the read
	// coordinate is flipped.
	ConventionVInverted
)

func (c Convention) String() string {
	if c == ConventionVAxisMatchesClip {
		return "v-matches-clip"
	}
	return "v-inverted"
}

// ShadowMapParams returns the read and write coordinates of a slot: x is
// the v coordinate for sampling in (0,1), y the clip-space coordinate for
// rendering into the row in (-1,1).
func ShadowMapParams(slot, maxSlots int, conv Convention) [4]float32 {
	u1 := (float32(slot) + 0.5) / float32(maxSlots)
	u2 := (u1 - 0.5) * 2
	if conv == ConventionVInverted {
		u1 = 1 - u1
	}
	return [4]float32{u1, u2, 0, 0}
}

// MaxSlots bounds the configured light count by the number of rows the
// shadow map texture physically has.
func MaxSlots(configured, textureHeight int) int {
	n := min(configured, textureHeight)
	return max(n, 0)
}

// SlotAllocator hands out shadow map rows to visible, shadow-casting lights
// in registration order.
type SlotAllocator struct {
	maxSlots int
	assigned []*Light

	// lastDropped is the dropped light count of the previous Pack, so the
	// overflow warning is only logged when it changes.
	lastDropped int
}

// NewSlotAllocator creates an allocator with maxSlots rows.
func NewSlotAllocator(maxSlots int) *SlotAllocator {
	return &SlotAllocator{maxSlots: maxSlots}
}

// MaxSlots returns the number of rows the allocator hands out.
func (a *SlotAllocator) MaxSlots() int {
	return a.maxSlots
}

// Pack clears the slot of every light, then assigns slots 0..maxSlots-1 to
// the visible, enabled, shadow-casting lights in order. Lights past the
// bound keep Unassigned for this frame. The returned slice is indexed by
// slot and is only valid until the next Pack.
func (a *SlotAllocator) Pack(lights []*Light, group *CullingGroup) []*Light {
	a.assigned = a.assigned[:0]
	dropped := 0
	for _, l := range lights {
		if l == nil {
			continue
		}
		l.shadowSlot = Unassigned
		if !l.CastsShadows || !group.LightVisible(l) {
			continue
		}
		if len(a.assigned) >= a.maxSlots {
			dropped++
			continue
		}
		l.shadowSlot = len(a.assigned)
		a.assigned = append(a.assigned, l)
	}

	if dropped != a.lastDropped {
		if dropped > 0 {
			logging.Logger().Warn("shadow slots exhausted, lights dropped for this frame",
				"slots", a.maxSlots, "dropped", dropped)
		}
		a.lastDropped = dropped
	}
	return a.assigned
}

// Assigned returns the lights of the last Pack, indexed by slot.
func (a *SlotAllocator) Assigned() []*Light {
	return a.assigned
}
