package body

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/geom"
)

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	const d = 250.0
	c, err := curve.New([]mgl64.Vec3{
		{0, 0, 0},
		{0, 0, -d},
		{100, 0, -2 * d},
		{-100, 0, -3 * d},
		{100, 0, -4 * d},
		{0, 0, -5 * d},
		{0, 0, -6 * d},
		{0, 0, -7 * d},
	}, curve.DefaultOptions())
	if err != nil {
		t.Fatalf("curve.New failed: %v", err)
	}
	return NewSolver(c, config.DefaultTunables())
}

func TestBankNeverExceedsLimit(t *testing.T) {
	sv := newTestSolver(t)
	limit := mgl64.DegToRad(sv.MaxBankDegrees) + 1e-12

	tangents := []mgl64.Vec3{
		{0, 1, 0},
		{0, -1, 0},
		{0, 0, 0},
		{1, 0, 0},
		{-1, 0, 0},
		{0, 0, 1},
		{0, 0, -1},
		{1e-300, 1, 0},
		{math.NaN(), 0, -1},
		{math.Inf(1), 0, 0},
	}
	for i := 0; i < 360; i += 5 {
		a := mgl64.DegToRad(float64(i))
		tangents = append(tangents, mgl64.Vec3{math.Sin(a), math.Cos(a) / 2, -math.Cos(a)})
	}
	aims := []mgl64.Vec3{{0, 0, 1}, {0, 1, 0}, {1, 0, 1}, {0, 0, 0}, {-0.3, 0.1, 0.9}}

	for _, tan := range tangents {
		for _, aim := range aims {
			bank := sv.BankAngle(tan, aim)
			if math.IsNaN(bank) || math.Abs(bank) > limit {
				t.Errorf("BankAngle(%v, %v) = %v, limit %v", tan, aim, bank, limit)
			}
		}
	}
}

func TestBankFollowsTurn(t *testing.T) {
	sv := newTestSolver(t)
	back := mgl64.Vec3{0, 0, 1}

	tests := []struct {
		name    string
		tangent mgl64.Vec3
		want    float64 // degrees
	}{
		{"straight", mgl64.Vec3{0, 0, -1}, 0},
		{"gentle right", mgl64.Vec3{math.Sin(mgl64.DegToRad(5)), 0, -math.Cos(mgl64.DegToRad(5))}, -12},
		{"gentle left", mgl64.Vec3{-math.Sin(mgl64.DegToRad(5)), 0, -math.Cos(mgl64.DegToRad(5))}, 12},
		{"hard right", mgl64.Vec3{1, 0, -1}, -35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mgl64.RadToDeg(sv.BankAngle(tt.tangent, back))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("bank = %.6f deg, want %.6f", got, tt.want)
			}
		})
	}
}

func TestBankIgnoresHeading(t *testing.T) {
	sv := newTestSolver(t)
	tangent := mgl64.Vec3{math.Sin(0.05), 0, -math.Cos(0.05)}
	base := sv.BankAngle(tangent, mgl64.Vec3{0, 0, 1})

	heading := mgl64.QuatRotate(mgl64.DegToRad(30), geom.Up)
	turned := sv.BankAngle(heading.Rotate(tangent), heading.Rotate(mgl64.Vec3{0, 0, 1}))
	if math.Abs(turned-base) > 1e-9 {
		t.Errorf("bank changed with heading: %v vs %v", turned, base)
	}
}

func TestStepZeroDeltaIsNoOp(t *testing.T) {
	sv := newTestSolver(t)
	s := State{Orientation: geom.QuatFromEulerXYZ(0, 0, 0.2), Bank: 0.3}

	got, err := sv.Step(s, 0.3, mgl64.Vec3{0, 0, 1}, 0)
	if !errors.Is(err, geom.ErrInvalidDelta) {
		t.Errorf("expected ErrInvalidDelta, got %v", err)
	}
	if got != s {
		t.Errorf("state changed: %+v -> %+v", s, got)
	}
}

func TestStepSettlesOnBank(t *testing.T) {
	sv := newTestSolver(t)
	s := Initial()
	const progress = 2.5 / 7.0

	aim := mgl64.Vec3{0, 0, 1}
	var err error
	for i := 0; i < 900; i++ {
		s, err = sv.Step(s, progress, aim, 1.0/60)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if s.Bank == 0 {
		t.Fatal("expected a non-zero bank in the middle of a swing")
	}
	if math.Abs(s.Roll()-s.Bank) > 1e-6 {
		t.Errorf("roll = %v, want %v", s.Roll(), s.Bank)
	}
	x, y, _ := geom.EulerXYZ(s.Orientation)
	if math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("pitch/yaw drifted to (%v, %v)", x, y)
	}
}

func TestStepLagsBehindBank(t *testing.T) {
	sv := newTestSolver(t)
	s, err := sv.Step(Initial(), 2.5/7.0, mgl64.Vec3{0, 0, 1}, 1.0/60)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	// one frame covers dt*gain = 1/30 of the way
	if want := s.Bank / 30; math.Abs(s.Roll()-want) > 1e-6 {
		t.Errorf("roll = %v, want %v", s.Roll(), want)
	}
}

func TestWorldComposesGroup(t *testing.T) {
	s := State{Orientation: geom.QuatFromEulerXYZ(0, 0, 0.4)}
	group := mgl64.QuatRotate(math.Pi/2, geom.Up)
	pos, rot := s.World(mgl64.Vec3{1, 2, 3}, group)
	if pos != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", pos)
	}
	// the body's local X axis is rolled then turned with the group
	want := group.Rotate(s.Orientation.Rotate(mgl64.Vec3{1, 0, 0}))
	if !geom.Near(rot.Rotate(mgl64.Vec3{1, 0, 0}), want, 1e-9) {
		t.Errorf("world X axis = %v, want %v", rot.Rotate(mgl64.Vec3{1, 0, 0}), want)
	}
}

func TestStepKeepsStateOnNonFiniteOrientation(t *testing.T) {
	sv := newTestSolver(t)
	s := State{Orientation: mgl64.Quat{W: math.NaN()}, Bank: 0.25}

	got, err := sv.Step(s, 2.5/7.0, mgl64.Vec3{0, 0, 1}, 1.0/60)
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	if got.Bank != s.Bank || !math.IsNaN(got.Orientation.W) {
		t.Errorf("state = %+v, want the previous one", got)
	}
}
