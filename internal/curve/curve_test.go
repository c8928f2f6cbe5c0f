package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/geom"
)

// referencePoints mirrors the authored flight path: straight run-in, three
// lateral swings of 100 units, straight run-out, 250 units between points.
func referencePoints() []mgl64.Vec3 {
	const d = 250.0
	return []mgl64.Vec3{
		{0, 0, 0},
		{0, 0, -d},
		{100, 0, -2 * d},
		{-100, 0, -3 * d},
		{100, 0, -4 * d},
		{0, 0, -5 * d},
		{0, 0, -6 * d},
		{0, 0, -7 * d},
	}
}

func TestNewRejectsTooFewPoints(t *testing.T) {
	for n := 0; n < MinPoints; n++ {
		pts := referencePoints()[:n]
		_, err := New(pts, DefaultOptions())
		if !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("New with %d points: expected ErrTooFewPoints, got %v", n, err)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	opts := DefaultOptions()
	opts.Kind = "bezier"
	if _, err := New(referencePoints(), opts); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	pts := referencePoints()
	pts[3] = mgl64.Vec3{math.NaN(), 0, 0}
	if _, err := New(pts, DefaultOptions()); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestNewCopiesPoints(t *testing.T) {
	pts := referencePoints()
	c, err := New(pts, DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pts[0] = mgl64.Vec3{999, 999, 999}

	p, _ := c.PointAt(0)
	if !geom.Near(p, mgl64.Vec3{0, 0, 0}, 1e-9) {
		t.Errorf("curve changed after caller mutated input: %v", p)
	}
}

func TestEndpointsMatchControlPoints(t *testing.T) {
	pts := referencePoints()
	for _, kind := range []Kind{CatmullRom, Centripetal, Chordal} {
		t.Run(string(kind), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Kind = kind
			c, err := New(pts, opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			start, _ := c.PointAt(0)
			end, _ := c.PointAt(1)
			if !geom.Near(start, pts[0], 1e-9) {
				t.Errorf("PointAt(0) = %v, want %v", start, pts[0])
			}
			if !geom.Near(end, pts[len(pts)-1], 1e-9) {
				t.Errorf("PointAt(1) = %v, want %v", end, pts[len(pts)-1])
			}

			// interior knots are interpolated too
			mid, _ := c.PointAt(2.0 / 7.0)
			if !geom.Near(mid, pts[2], 1e-6) {
				t.Errorf("PointAt(2/7) = %v, want %v", mid, pts[2])
			}
		})
	}
}

func TestTangentIsUnitLength(t *testing.T) {
	for _, kind := range []Kind{CatmullRom, Centripetal, Chordal} {
		opts := DefaultOptions()
		opts.Kind = kind
		c, err := New(referencePoints(), opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		for i := 0; i <= 500; i++ {
			tt := float64(i) / 500
			tan, err := c.TangentAt(tt)
			if err != nil {
				t.Fatalf("%s: TangentAt(%v) failed: %v", kind, tt, err)
			}
			if math.Abs(tan.Len()-1) > 1e-9 {
				t.Fatalf("%s: |TangentAt(%v)| = %v", kind, tt, tan.Len())
			}
		}
	}
}

func TestTangentFollowsTravel(t *testing.T) {
	c, _ := New(referencePoints(), DefaultOptions())

	// the run-in is straight down -Z
	tan, _ := c.TangentAt(0)
	if !geom.Near(tan, mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("TangentAt(0) = %v, want (0, 0, -1)", tan)
	}

	// between the 2nd and 3rd control points the path swings toward +X
	tan, _ = c.TangentAt(1.5 / 7.0)
	if tan.X() <= 0 || tan.Z() >= 0 {
		t.Errorf("TangentAt(1.5/7) = %v, expected +X and -Z components", tan)
	}
}

func TestDomainErrors(t *testing.T) {
	c, _ := New(referencePoints(), DefaultOptions())
	for _, bad := range []float64{-0.001, 1.001, math.NaN(), math.Inf(1)} {
		if _, err := c.PointAt(bad); !errors.Is(err, ErrDomain) {
			t.Errorf("PointAt(%v): expected ErrDomain, got %v", bad, err)
		}
		if _, err := c.TangentAt(bad); !errors.Is(err, ErrDomain) {
			t.Errorf("TangentAt(%v): expected ErrDomain, got %v", bad, err)
		}
		if _, err := c.ArcToParam(bad); !errors.Is(err, ErrDomain) {
			t.Errorf("ArcToParam(%v): expected ErrDomain, got %v", bad, err)
		}
	}
}

func TestDegenerateTangent(t *testing.T) {
	same := []mgl64.Vec3{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}, {1, 2, 3}}
	c, err := New(same, DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.TangentAt(0.5); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestStraightLineIsLinear(t *testing.T) {
	line := []mgl64.Vec3{{0, 0, 0}, {0, 0, -1}, {0, 0, -2}, {0, 0, -3}}
	c, err := New(line, DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if math.Abs(c.Length()-3) > 1e-9 {
		t.Errorf("Length() = %v, want 3", c.Length())
	}
	p, _ := c.PointAt(0.5)
	if !geom.Near(p, mgl64.Vec3{0, 0, -1.5}, 1e-9) {
		t.Errorf("PointAt(0.5) = %v, want (0, 0, -1.5)", p)
	}
	u, _ := c.ArcToParam(0.25)
	if math.Abs(u-0.25) > 1e-9 {
		t.Errorf("ArcToParam(0.25) = %v, want 0.25", u)
	}
}

func TestPointAtArc(t *testing.T) {
	line := []mgl64.Vec3{{0, 0, 0}, {0, 0, -1}, {0, 0, -2}, {0, 0, -3}}
	c, err := New(line, DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p, err := c.PointAtArc(0.75)
	if err != nil {
		t.Fatalf("PointAtArc failed: %v", err)
	}
	if !geom.Near(p, mgl64.Vec3{0, 0, -2.25}, 1e-6) {
		t.Errorf("PointAtArc(0.75) = %v, want (0, 0, -2.25)", p)
	}

	pts := referencePoints()
	c, err = New(pts, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	start, _ := c.PointAtArc(0)
	end, _ := c.PointAtArc(1)
	if !geom.Near(start, pts[0], 1e-6) || !geom.Near(end, pts[len(pts)-1], 1e-6) {
		t.Errorf("arc endpoints = %v, %v", start, end)
	}
	if _, err := c.PointAtArc(1.5); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
}

func TestSample(t *testing.T) {
	pts := referencePoints()
	c, _ := New(pts, DefaultOptions())

	got := Sample(c, 70)
	if len(got) != 71 {
		t.Fatalf("Sample(70) returned %d points, want 71", len(got))
	}
	// every 10th sample lands on a control point
	for i, p := range pts {
		if !geom.Near(got[i*10], p, 1e-6) {
			t.Errorf("sample %d = %v, want control point %v", i*10, got[i*10], p)
		}
	}

	again := Sample(c, 70)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("Sample is not deterministic at %d", i)
		}
	}

	if n := len(c.Polyline()); n != DefaultOptions().Samples+1 {
		t.Errorf("Polyline() has %d points, want %d", n, DefaultOptions().Samples+1)
	}
}

func TestSampleEvenly(t *testing.T) {
	c, _ := New(referencePoints(), DefaultOptions())
	pts := SampleEvenly(c, 100)
	if len(pts) != 101 {
		t.Fatalf("SampleEvenly(100) returned %d points", len(pts))
	}

	step := c.Length() / 100
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1]).Len()
		if math.Abs(d-step) > step*0.05 {
			t.Errorf("segment %d length %.3f, want about %.3f", i, d, step)
		}
	}
}

func TestNearest(t *testing.T) {
	pts := referencePoints()
	c, _ := New(pts, DefaultOptions())

	for i, p := range pts {
		want := float64(i) / float64(len(pts)-1)
		if got := c.Nearest(p.Add(mgl64.Vec3{1, 0, 0})); math.Abs(got-want) > 0.005 {
			t.Errorf("Nearest(control point %d) = %v, want ~%v", i, got, want)
		}
	}
}
