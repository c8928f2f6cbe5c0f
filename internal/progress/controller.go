// Package progress turns the raw scroll ratio into the damped progress value
// that drives the rest of the rig.
package progress

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/geom"
	"github.com/ivlev/scrollrig/internal/poi"
)

// State is the only value carried between frames by the controller.
type State struct {
	Last float64 // damped progress in [0, 1]
}

// Controller applies friction-modulated exponential damping to scroll input.
type Controller struct {
	FrictionDistance float64
	MinFriction      float64
}

// NewController creates a Controller from the rig tunables.
func NewController(t config.Tunables) *Controller {
	return &Controller{
		FrictionDistance: t.FrictionDistance,
		MinFriction:      t.MinFriction,
	}
}

// Friction maps a proximity scan to a damping multiplier in (0, 1].
// Away from every point of interest friction is 1.
func (c *Controller) Friction(near poi.Proximity) float64 {
	if !near.InRange() {
		return 1
	}
	return math.Max(near.Ratio, c.MinFriction)
}

// Step advances the damped progress by one frame. rigPosition is the camera
// group position from the previous frame. dt must be positive; callers filter
// invalid frames before calling.
func (c *Controller) Step(s State, points []poi.PointOfInterest, rigPosition mgl64.Vec3, dt, rawRatio float64) (State, poi.Proximity) {
	near := poi.Scan(points, rigPosition, c.FrictionDistance)
	return c.Advance(s, c.Friction(near), dt, rawRatio), near
}

// Advance damps toward rawRatio with the given friction.
func (c *Controller) Advance(s State, friction, dt, rawRatio float64) State {
	target := ClampRatio(rawRatio)
	next := geom.Lerp(s.Last, target, geom.Rate(dt*friction))
	next = mgl64.Clamp(next, 0, 1)
	if !geom.Finite(next) {
		return s
	}
	return State{Last: next}
}

// ClampRatio floors negative scroll input at 0 and caps it at 1.
// NaN input is treated as 0.
func ClampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return mgl64.Clamp(r, 0, 1)
}
