package demo

import "seehuhn.de/go/geom/vec"

// View tracks the viewport position for scrolling large scenes.
type View struct {
	X, Y float64 // top-left corner of the viewport in world coords
}

// Offset returns the view position as a vector.
func (v View) Offset() vec.Vec2 {
	return vec.Vec2{X: v.X, Y: v.Y}
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}
