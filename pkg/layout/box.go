package layout

// Box is an axis-aligned rectangle with its origin at the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Inflate grows b by margin on every side.
func (b Box) Inflate(margin float64) Box {
	return Box{X: b.X - margin, Y: b.Y - margin, W: b.W + 2*margin, H: b.H + 2*margin}
}

// Collides reports whether a overlaps b once b is inflated by spacing.
// Boxes that only touch along an edge do not collide.
func Collides(a, b Box, spacing float64) bool {
	o := b.Inflate(spacing)
	return !(a.X+a.W <= o.X || o.X+o.W <= a.X || a.Y+a.H <= o.Y || o.Y+o.H <= a.Y)
}

// AnyCollision reports whether a collides with any of placed.
func AnyCollision(a Box, placed []Box, spacing float64) bool {
	for _, p := range placed {
		if Collides(a, p, spacing) {
			return true
		}
	}
	return false
}
