package lighting

import (
	"github.com/google/uuid"

	"chosenoffset.com/lumen2d/internal/logging"
)

// Registry holds all light sources in registration order. The order is
// the slot packing priority.
type Registry struct {
	lights       []*Light
	ambientLight float64 // 0.0 = pitch black, 1.0 = fully lit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lights:       make([]*Light, 0),
		ambientLight: 0.15,
	}
}

// SetAmbientLight sets the global ambient light level
func (r *Registry) SetAmbientLight(level float64) {
	r.ambientLight = level
}

// AmbientLight returns the current ambient light level
func (r *Registry) AmbientLight() float64 {
	return r.ambientLight
}

// Add appends a light. Its derived indices start unassigned and a light
// without an ID is given a fresh one.
func (r *Registry) Add(l *Light) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.cullingIndex = Unassigned
	l.shadowSlot = Unassigned
	r.lights = append(r.lights, l)
	logging.Logger().Debug("light registered", "light", l.Name, "id", l.ID, "kind", l.Kind.String())
}

// Remove unregisters the light with the given ID, keeping the order of the
// rest. It reports whether a light was removed.
func (r *Registry) Remove(id uuid.UUID) bool {
	for i, l := range r.lights {
		if l.ID == id {
			r.lights = append(r.lights[:i], r.lights[i+1:]...)
			l.cullingIndex = Unassigned
			l.shadowSlot = Unassigned
			return true
		}
	}
	return false
}

// Get returns the light with the given ID, or nil.
func (r *Registry) Get(id uuid.UUID) *Light {
	for _, l := range r.lights {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (r *Registry) contains(l *Light) bool {
	for _, existing := range r.lights {
		if existing == l {
			return true
		}
	}
	return false
}

// Lights returns all registered lights in registration order.
func (r *Registry) Lights() []*Light {
	return r.lights
}

// Len returns the number of registered lights.
func (r *Registry) Len() int {
	return len(r.lights)
}

// Validate normalises every registered light for technique t.
func (r *Registry) Validate(t Technique) {
	for _, l := range r.lights {
		Validate(l, t)
	}
}

// Clear removes all lights (called when loading a new scene)
func (r *Registry) Clear() {
	r.lights = r.lights[:0]
}
