// Package camera moves the camera group along the curve and slides the camera
// rail sideways near points of interest.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/geom"
	"github.com/ivlev/scrollrig/internal/poi"
)

// ErrNonFinite is reported when a stage produced NaN, Inf or a degenerate
// look direction and kept its previous value.
var ErrNonFinite = errors.New("camera: non-finite result, previous value kept")

// State is the camera group transform plus the rail sub-transform.
// The group's local +Z axis is its look direction, which points backward
// along the direction of travel.
type State struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Rail        mgl64.Vec3 // offset of the rail in group space
}

// LookDir returns the group's current look direction.
func (s State) LookDir() mgl64.Vec3 {
	return geom.FacingOf(s.Orientation)
}

// RailWorld returns the world position of the rail.
func (s State) RailWorld() mgl64.Vec3 {
	return s.Position.Add(s.Orientation.Rotate(s.Rail))
}

// Mount places the camera on the rail.
type Mount struct {
	Offset mgl64.Vec3
	Pitch  float64 // radians about the rail's X axis
}

// DefaultMount sits the camera above and behind the body, tilted slightly down.
var DefaultMount = Mount{Offset: mgl64.Vec3{0, 1, 5}, Pitch: -0.1}

// Camera returns the camera world transform for the given mount.
func (s State) Camera(m Mount) (mgl64.Vec3, mgl64.Quat) {
	pos := s.Position.Add(s.Orientation.Rotate(s.Rail.Add(m.Offset)))
	rot := s.Orientation.Mul(mgl64.QuatRotate(m.Pitch, mgl64.Vec3{1, 0, 0})).Normalize()
	return pos, rot
}

// Aim is what the rig sampled from the curve this frame.
type Aim struct {
	Point     mgl64.Vec3 // curve position at the current progress
	Ahead     mgl64.Vec3 // curve position a little further along
	TargetDir mgl64.Vec3 // undamped look direction, Point - Ahead normalized
}

// Rig advances State once per frame.
type Rig struct {
	Curve            *curve.Curve
	Lookahead        float64
	PositionGain     float64
	RailGain         float64
	FrictionDistance float64
}

// NewRig creates a Rig for the curve with the given tunables.
func NewRig(c *curve.Curve, t config.Tunables) *Rig {
	return &Rig{
		Curve:            c,
		Lookahead:        t.CameraLookahead,
		PositionGain:     t.PositionGain,
		RailGain:         t.RailGain,
		FrictionDistance: t.FrictionDistance,
	}
}

// Initial returns the rig parked at the start of the curve, already facing
// its undamped look direction.
func (r *Rig) Initial() (State, error) {
	aim, err := r.Sample(0, mgl64.Vec3{0, 0, 1})
	if err != nil {
		return State{}, err
	}
	rot, ok := geom.LookRotation(aim.TargetDir, geom.Up)
	if !ok {
		rot = mgl64.QuatIdent()
	}
	return State{Position: aim.Point, Orientation: rot}, nil
}

// Sample reads the curve at progress and at progress+Lookahead (capped at 1).
// When both samples coincide the target direction falls back to fallback.
func (r *Rig) Sample(progress float64, fallback mgl64.Vec3) (Aim, error) {
	p := mgl64.Clamp(progress, 0, 1)
	cur, err := r.Curve.PointAt(p)
	if err != nil {
		return Aim{}, fmt.Errorf("camera: sample current point: %w", err)
	}
	ahead, err := r.Curve.PointAt(math.Min(p+r.Lookahead, 1))
	if err != nil {
		return Aim{}, fmt.Errorf("camera: sample look-ahead point: %w", err)
	}

	dir := cur.Sub(ahead)
	if l := dir.Len(); l >= geom.MinDirection && geom.Finite(l) {
		dir = dir.Mul(1 / l)
	} else {
		dir = fallback
	}
	return Aim{Point: cur, Ahead: ahead, TargetDir: dir}, nil
}

// Step advances the rig toward progress. near must come from a scan against
// s.Position (the previous frame). A non-positive dt leaves s untouched.
func (r *Rig) Step(s State, points []poi.PointOfInterest, near poi.Proximity, progress, dt float64) (State, Aim, error) {
	if !geom.ValidDelta(dt) {
		return s, Aim{}, fmt.Errorf("camera: %w: %v", geom.ErrInvalidDelta, dt)
	}

	aim, err := r.Sample(progress, s.LookDir())
	if err != nil {
		return s, Aim{}, err
	}

	next := s
	var errs []error
	rate := geom.Rate(dt * r.PositionGain)

	pos := geom.LerpVec(s.Position, aim.Point, rate)
	if geom.FiniteVec(pos) {
		next.Position = pos
	} else {
		errs = append(errs, fmt.Errorf("%w: position", ErrNonFinite))
	}

	look := geom.LerpVec(s.LookDir(), aim.TargetDir, rate)
	if rot, ok := geom.LookRotation(look, geom.Up); ok && geom.FiniteQuat(rot) {
		next.Orientation = rot
	} else {
		errs = append(errs, fmt.Errorf("%w: orientation", ErrNonFinite))
	}

	rail := geom.LerpVec(s.Rail, r.RailTarget(points, near), geom.Rate(dt*r.RailGain))
	if geom.FiniteVec(rail) {
		next.Rail = rail
	} else {
		errs = append(errs, fmt.Errorf("%w: rail", ErrNonFinite))
	}

	return next, aim, errors.Join(errs...)
}

// RailTarget is the lateral offset the rail eases toward: it grows linearly
// from zero at the edge of the friction radius to the point's full
// LateralOffset at its center, and is zero when no point is in range.
func (r *Rig) RailTarget(points []poi.PointOfInterest, near poi.Proximity) mgl64.Vec3 {
	if !near.InRange() || near.Index >= len(points) {
		return mgl64.Vec3{}
	}
	return geom.Lateral.Mul((1 - near.Ratio) * points[near.Index].LateralOffset)
}
