// Package poi models the authored points of interest along the path and the
// per-frame proximity scan shared by the progress controller and the camera rail.
package poi

import "github.com/go-gl/mathgl/mgl64"

// PointOfInterest is a place on the path where the camera slows down and slides sideways.
type PointOfInterest struct {
	Position      mgl64.Vec3
	LateralOffset float64 // rail offset along local X at the point itself
	Label         string
	Description   string
}

// Proximity is the outcome of one scan.
type Proximity struct {
	Index    int     // index of the winning point, -1 when none is in range
	Distance float64 // distance from the scan position to the winning point
	Ratio    float64 // Distance / radius, in [0, 1)
}

// InRange reports whether any point qualified.
func (p Proximity) InRange() bool {
	return p.Index >= 0
}

// None is the result of a scan with no point in range.
var None = Proximity{Index: -1, Ratio: 1}

// Scan walks the points in authored order and returns the LAST one whose
// distance from pos is strictly below radius. Later points override earlier
// ones even when an earlier point is closer.
func Scan(points []PointOfInterest, pos mgl64.Vec3, radius float64) Proximity {
	result := None
	if radius <= 0 {
		return result
	}
	for i, p := range points {
		d := p.Position.Sub(pos).Len()
		if d < radius {
			result = Proximity{Index: i, Distance: d, Ratio: d / radius}
		}
	}
	return result
}
