package curve

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// arcTable returns cumulative chord lengths at divisions+1 evenly spaced parameters.
func (c *Curve) arcTable(divisions int) []float64 {
	lengths := make([]float64, divisions+1)
	last := c.point(0)
	for i := 1; i <= divisions; i++ {
		p := c.point(float64(i) / float64(divisions))
		lengths[i] = lengths[i-1] + p.Sub(last).Len()
		last = p
	}
	return lengths
}

// Length returns the approximate total arc length.
func (c *Curve) Length() float64 {
	return c.lengths[len(c.lengths)-1]
}

// ArcToParam maps a fraction u of the total arc length to the curve parameter t.
func (c *Curve) ArcToParam(u float64) (float64, error) {
	if !inDomain(u) {
		return 0, fmt.Errorf("%w: %v", ErrDomain, u)
	}
	n := len(c.lengths)
	total := c.lengths[n-1]
	if total == 0 {
		return u, nil
	}

	target := u * total
	i := sort.SearchFloat64s(c.lengths, target)
	if i >= n {
		return 1, nil
	}
	if i == 0 || c.lengths[i] == target {
		return float64(i) / float64(n-1), nil
	}

	before := c.lengths[i-1]
	span := c.lengths[i] - before
	frac := (target - before) / span
	return (float64(i-1) + frac) / float64(n-1), nil
}

// PointAtArc returns the position at fraction u of the total arc length.
func (c *Curve) PointAtArc(u float64) (mgl64.Vec3, error) {
	t, err := c.ArcToParam(u)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return c.point(t), nil
}
