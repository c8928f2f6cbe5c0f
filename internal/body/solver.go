// Package body banks the moving body into the turns of the curve.
package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/geom"
)

// ErrNonFinite is reported when the solved orientation was not finite and the
// previous one was kept.
var ErrNonFinite = errors.New("body: non-finite orientation, previous value kept")

// State is the body orientation relative to the camera group.
type State struct {
	Orientation mgl64.Quat
	Bank        float64 // last solved target bank, radians
}

// Initial returns an unbanked body.
func Initial() State {
	return State{Orientation: mgl64.QuatIdent()}
}

// World returns the body's world transform. The body rides at the group origin.
func (s State) World(groupPos mgl64.Vec3, groupRot mgl64.Quat) (mgl64.Vec3, mgl64.Quat) {
	return groupPos, groupRot.Mul(s.Orientation).Normalize()
}

// Roll returns the current roll of the body in radians.
func (s State) Roll() float64 {
	_, _, z := geom.EulerXYZ(s.Orientation)
	return z
}

type Solver struct {
	Curve             *curve.Curve
	Lookahead         float64
	MaxBankDegrees    float64
	BankAmplification float64
	OrientationGain   float64
}

func NewSolver(c *curve.Curve, t config.Tunables) *Solver {
	return &Solver{
		Curve:             c,
		Lookahead:         t.BodyLookahead,
		MaxBankDegrees:    t.MaxBankDegrees,
		BankAmplification: t.BankAmplification,
		OrientationGain:   t.OrientationGain,
	}
}

// BankAngle returns the clamped bank in radians for a curve tangent, measured
// in the frame of an undamped look rotation along aimDir.
// Zero or non-finite tangents bank to zero.
func (sv *Solver) BankAngle(tangent, aimDir mgl64.Vec3) float64 {
	if !geom.FiniteVec(tangent) || tangent.Dot(tangent) == 0 {
		return 0
	}

	var yaw float64
	if rot, ok := geom.LookRotation(aimDir, geom.Up); ok {
		_, yaw, _ = geom.EulerXYZ(rot)
	}
	local := mgl64.QuatRotate(-yaw, geom.Up).Rotate(tangent)

	angle := math.Atan2(-local.Z(), local.X()) - math.Pi/2
	deg := mgl64.RadToDeg(angle) * sv.BankAmplification
	if !geom.Finite(deg) {
		return 0
	}
	deg = mgl64.Clamp(deg, -sv.MaxBankDegrees, sv.MaxBankDegrees)
	return mgl64.DegToRad(deg)
}

// Step eases the body toward the bank of the curve slightly ahead of progress.
// aimDir is the rig's undamped look direction for this frame.
func (sv *Solver) Step(s State, progress float64, aimDir mgl64.Vec3, dt float64) (State, error) {
	if !geom.ValidDelta(dt) {
		return s, fmt.Errorf("body: %w: %v", geom.ErrInvalidDelta, dt)
	}

	at := math.Min(mgl64.Clamp(progress, 0, 1)+sv.Lookahead, 1)
	tangent, err := sv.Curve.TangentAt(at)
	if err != nil {
		return s, fmt.Errorf("body: tangent at %.4f: %w", at, err)
	}

	bank := sv.BankAngle(tangent, aimDir)
	x, y, _ := geom.EulerXYZ(s.Orientation)
	target := geom.QuatFromEulerXYZ(x, y, bank)

	rot := geom.Slerp(s.Orientation, target, dt*sv.OrientationGain)
	if !geom.FiniteQuat(rot) {
		return s, ErrNonFinite
	}
	return State{Orientation: rot, Bank: bank}, nil
}
