package curve

import "github.com/go-gl/mathgl/mgl64"

// Sample returns count+1 points evenly spaced in curve parameter, from the
// first control point to the last. Spacing along the path is not uniform.
func Sample(c *Curve, count int) []mgl64.Vec3 {
	if count < 1 {
		count = 1
	}
	out := make([]mgl64.Vec3, count+1)
	for i := 0; i <= count; i++ {
		out[i] = c.point(float64(i) / float64(count))
	}
	return out
}

// SampleEvenly returns count+1 points evenly spaced by arc length.
func SampleEvenly(c *Curve, count int) []mgl64.Vec3 {
	if count < 1 {
		count = 1
	}
	out := make([]mgl64.Vec3, count+1)
	for i := 0; i <= count; i++ {
		// ArcToParam cannot fail for u in [0, 1]
		t, _ := c.ArcToParam(float64(i) / float64(count))
		out[i] = c.point(t)
	}
	return out
}

// Nearest returns the parameter of the display polyline sample closest to p.
func (c *Curve) Nearest(p mgl64.Vec3) float64 {
	best, bestDist := 0, -1.0
	for i, q := range c.polyline {
		v := q.Sub(p)
		d := v.Dot(v)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if len(c.polyline) < 2 {
		return 0
	}
	return float64(best) / float64(len(c.polyline)-1)
}
