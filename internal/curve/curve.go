// Package curve implements the open Catmull-Rom spline the rig travels along.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/geom"
)

// MinPoints is the smallest control point count accepted by New.
const MinPoints = 4

var (
	ErrTooFewPoints = errors.New("curve: too few control points")
	ErrUnknownKind  = errors.New("curve: unknown curve kind")
	ErrDomain       = errors.New("curve: parameter outside [0, 1]")
	ErrDegenerate   = errors.New("curve: degenerate geometry")
)

// Kind selects the Catmull-Rom parameterization.
type Kind string

const (
	CatmullRom  Kind = "catmullrom"  // uniform, shaped by Tension
	Centripetal Kind = "centripetal" // non-uniform, alpha 0.5
	Chordal     Kind = "chordal"     // non-uniform, alpha 1.0
)

// Options configures curve construction.
type Options struct {
	Kind         Kind
	Tension      float64
	Samples      int // segments in the cached display polyline
	ArcDivisions int // resolution of the arc-length table
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Kind:         CatmullRom,
		Tension:      0.5,
		Samples:      1000,
		ArcDivisions: 200,
	}
}

// Curve is an immutable open spline through an ordered list of control points.
// It is safe for concurrent reads.
type Curve struct {
	points  []mgl64.Vec3
	kind    Kind
	tension float64

	polyline []mgl64.Vec3
	lengths  []float64
}

// New builds a curve from at least MinPoints control points. The points are copied.
func New(points []mgl64.Vec3, opts Options) (*Curve, error) {
	if len(points) < MinPoints {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(points), MinPoints)
	}
	switch opts.Kind {
	case "":
		opts.Kind = CatmullRom
	case CatmullRom, Centripetal, Chordal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
	for i, p := range points {
		if !geom.FiniteVec(p) {
			return nil, fmt.Errorf("%w: control point %d is not finite", ErrDegenerate, i)
		}
	}
	if opts.Samples < 1 {
		opts.Samples = DefaultOptions().Samples
	}
	if opts.ArcDivisions < 1 {
		opts.ArcDivisions = DefaultOptions().ArcDivisions
	}

	c := &Curve{
		points:  make([]mgl64.Vec3, len(points)),
		kind:    opts.Kind,
		tension: opts.Tension,
	}
	copy(c.points, points)

	c.lengths = c.arcTable(opts.ArcDivisions)
	c.polyline = Sample(c, opts.Samples)
	return c, nil
}

// Kind returns the parameterization the curve was built with.
func (c *Curve) Kind() Kind { return c.kind }

// Tension returns the uniform Catmull-Rom tension.
func (c *Curve) Tension() float64 { return c.tension }

// Points returns a copy of the control points.
func (c *Curve) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// Polyline returns a copy of the dense display polyline computed at construction.
func (c *Curve) Polyline() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(c.polyline))
	copy(out, c.polyline)
	return out
}

// PointAt returns the position at parameter t. Callers clamp t to [0, 1].
func (c *Curve) PointAt(t float64) (mgl64.Vec3, error) {
	if !inDomain(t) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrDomain, t)
	}
	return c.point(t), nil
}

// TangentAt returns the unit direction of travel at parameter t.
// The analytic derivative is used; where it vanishes a central difference
// over the neighbouring parameter range is tried before giving up.
func (c *Curve) TangentAt(t float64) (mgl64.Vec3, error) {
	if !inDomain(t) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrDomain, t)
	}

	d := c.derivative(t)
	if d.Len() > 1e-12 && geom.FiniteVec(d) {
		return d.Normalize(), nil
	}

	const delta = 0.0001
	t1 := math.Max(t-delta, 0)
	t2 := math.Min(t+delta, 1)
	d = c.point(t2).Sub(c.point(t1))
	if d.Len() <= 1e-12 || !geom.FiniteVec(d) {
		return mgl64.Vec3{}, fmt.Errorf("%w: zero tangent at t=%v", ErrDegenerate, t)
	}
	return d.Normalize(), nil
}

func inDomain(t float64) bool {
	return t >= 0 && t <= 1
}

// segment locates t on the control polygon and builds the three cubic
// polynomials of that span. w is the local parameter in [0, 1].
func (c *Curve) segment(t float64) (px, py, pz cubicPoly, w float64) {
	pts := c.points
	l := len(pts)

	p := float64(l-1) * t
	i := int(math.Floor(p))
	w = p - float64(i)
	if i >= l-1 {
		i = l - 2
		w = 1
	}

	var p0, p3 mgl64.Vec3
	if i > 0 {
		p0 = pts[i-1]
	} else {
		p0 = pts[0].Mul(2).Sub(pts[1])
	}
	p1, p2 := pts[i], pts[i+1]
	if i+2 < l {
		p3 = pts[i+2]
	} else {
		p3 = pts[l-1].Mul(2).Sub(pts[l-2])
	}

	switch c.kind {
	case Centripetal, Chordal:
		pow := 0.25
		if c.kind == Chordal {
			pow = 0.5
		}
		dt0 := math.Pow(distSq(p0, p1), pow)
		dt1 := math.Pow(distSq(p1, p2), pow)
		dt2 := math.Pow(distSq(p2, p3), pow)

		// safety check for repeated points
		if dt1 < 1e-4 {
			dt1 = 1.0
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}

		px = nonUniformPoly(p0[0], p1[0], p2[0], p3[0], dt0, dt1, dt2)
		py = nonUniformPoly(p0[1], p1[1], p2[1], p3[1], dt0, dt1, dt2)
		pz = nonUniformPoly(p0[2], p1[2], p2[2], p3[2], dt0, dt1, dt2)
	default:
		px = uniformPoly(p0[0], p1[0], p2[0], p3[0], c.tension)
		py = uniformPoly(p0[1], p1[1], p2[1], p3[1], c.tension)
		pz = uniformPoly(p0[2], p1[2], p2[2], p3[2], c.tension)
	}
	return px, py, pz, w
}

func (c *Curve) point(t float64) mgl64.Vec3 {
	px, py, pz, w := c.segment(t)
	return mgl64.Vec3{px.at(w), py.at(w), pz.at(w)}
}

// derivative is d(point)/dt, the local slope scaled by the segment count.
func (c *Curve) derivative(t float64) mgl64.Vec3 {
	px, py, pz, w := c.segment(t)
	scale := float64(len(c.points) - 1)
	return mgl64.Vec3{px.slope(w), py.slope(w), pz.slope(w)}.Mul(scale)
}

func distSq(a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// cubicPoly is c0 + c1*w + c2*w^2 + c3*w^3.
type cubicPoly struct {
	c0, c1, c2, c3 float64
}

// hermitePoly builds the cubic from end values x0, x1 and end slopes t0, t1.
func hermitePoly(x0, x1, t0, t1 float64) cubicPoly {
	return cubicPoly{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

func uniformPoly(x0, x1, x2, x3, tension float64) cubicPoly {
	return hermitePoly(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

func nonUniformPoly(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubicPoly {
	// tangents parameterized over [t1, t2]
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2

	// rescaled to [0, 1]
	t1 *= dt1
	t2 *= dt1
	return hermitePoly(x1, x2, t1, t2)
}

func (p cubicPoly) at(w float64) float64 {
	w2 := w * w
	return p.c0 + p.c1*w + p.c2*w2 + p.c3*w2*w
}

func (p cubicPoly) slope(w float64) float64 {
	return p.c1 + 2*p.c2*w + 3*p.c3*w*w
}
