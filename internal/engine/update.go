package engine

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/body"
	"github.com/ivlev/scrollrig/internal/camera"
	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/geom"
	"github.com/ivlev/scrollrig/internal/poi"
	"github.com/ivlev/scrollrig/internal/progress"
	"github.com/ivlev/scrollrig/internal/timeline"
)

var (
	// ErrInvalidDelta is returned for frames with a zero, negative or non-finite delta time.
	ErrInvalidDelta = geom.ErrInvalidDelta
	// ErrNonFinite is returned when a stage kept its previous value because it computed NaN or Inf.
	ErrNonFinite = errors.New("non-finite value, previous frame kept")
)

// ControlLoopState is everything carried from one frame to the next.
type ControlLoopState struct {
	Frame    int
	Time     float64 // accumulated delta time of accepted frames
	Progress progress.State
	Rig      camera.State
	Body     body.State
	Colors   timeline.Pair
	Near     poi.Proximity // proximity scan of the last accepted frame
}

// World is the read-only part of the rig: the curve, the points of interest,
// the color timeline and the solvers configured from the tunables.
type World struct {
	Curve    *curve.Curve
	Points   []poi.PointOfInterest
	Timeline *timeline.Timeline
	Tunables config.Tunables

	progress *progress.Controller
	rig      *camera.Rig
	body     *body.Solver
}

// NewWorld wires the stage solvers around c. tl may be nil, in which case
// colors stay at their zero value.
func NewWorld(c *curve.Curve, points []poi.PointOfInterest, tl *timeline.Timeline, t config.Tunables) (*World, error) {
	if c == nil {
		return nil, fmt.Errorf("engine: curve is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	pts := make([]poi.PointOfInterest, len(points))
	copy(pts, points)

	return &World{
		Curve:    c,
		Points:   pts,
		Timeline: tl,
		Tunables: t,
		progress: progress.NewController(t),
		rig:      camera.NewRig(c, t),
		body:     body.NewSolver(c, t),
	}, nil
}

// Polyline returns the dense display path cached by the curve.
func (w *World) Polyline() []mgl64.Vec3 {
	return w.Curve.Polyline()
}

// Milestones returns n+1 points spaced evenly by arc length, from the start
// of the curve to its end.
func (w *World) Milestones(n int) ([]mgl64.Vec3, error) {
	if n < 1 {
		return nil, fmt.Errorf("engine: milestones need n >= 1, got %d", n)
	}
	marks := make([]mgl64.Vec3, n+1)
	for i := range marks {
		p, err := w.Curve.PointAtArc(float64(i) / float64(n))
		if err != nil {
			return nil, fmt.Errorf("engine: milestone %d: %w", i, err)
		}
		marks[i] = p
	}
	return marks, nil
}

// Initial returns the state before the first frame: progress 0, the rig
// parked at the start of the curve and the timeline at its start colors.
func (w *World) Initial() (ControlLoopState, error) {
	rig, err := w.rig.Initial()
	if err != nil {
		return ControlLoopState{}, fmt.Errorf("engine: initial rig: %w", err)
	}
	s := ControlLoopState{
		Rig:  rig,
		Body: body.Initial(),
		Near: poi.None,
	}
	if w.Timeline != nil {
		s.Colors = w.Timeline.Start()
	}
	return s, nil
}

// Update runs one frame of the control loop and returns the next state.
// It never mutates s. A frame with an invalid dt returns s unchanged together
// with ErrInvalidDelta. Stages that produce non-finite values keep their
// previous value and the frame reports ErrNonFinite alongside the new state.
func (w *World) Update(s ControlLoopState, dt, rawRatio float64) (ControlLoopState, error) {
	if !geom.ValidDelta(dt) {
		return s, fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}

	// one scan against last frame's rig position feeds friction and rail
	near := poi.Scan(w.Points, s.Rig.Position, w.Tunables.FrictionDistance)
	prog := w.progress.Advance(s.Progress, w.progress.Friction(near), dt, rawRatio)

	next := s
	next.Frame++
	next.Time += dt
	next.Progress = prog
	next.Near = near

	var soft []error
	rig, aim, err := w.rig.Step(s.Rig, w.Points, near, prog.Last, dt)
	switch {
	case errors.Is(err, camera.ErrNonFinite):
		soft = append(soft, err)
	case err != nil:
		return s, fmt.Errorf("engine: camera rig: %w", err)
	}
	next.Rig = rig

	b, err := w.body.Step(s.Body, prog.Last, aim.TargetDir, dt)
	switch {
	case errors.Is(err, body.ErrNonFinite):
		soft = append(soft, err)
	case err != nil:
		return s, fmt.Errorf("engine: body solver: %w", err)
	}
	next.Body = b

	if w.Timeline != nil {
		next.Colors = w.Timeline.Scrub(prog.Last)
	}

	if len(soft) > 0 {
		return next, fmt.Errorf("%w: %w", ErrNonFinite, errors.Join(soft...))
	}
	return next, nil
}

// Outputs are the transforms a renderer reads after each frame.
type Outputs struct {
	RigPosition    mgl64.Vec3
	RigOrientation mgl64.Quat
	Rail           mgl64.Vec3 // rail offset in group space
	CameraPosition mgl64.Vec3
	CameraRotation mgl64.Quat
	BodyPosition   mgl64.Vec3
	BodyRotation   mgl64.Quat
	ColorA, ColorB string
}

// Outputs derives the render-facing transforms from s.
func (s ControlLoopState) Outputs(m camera.Mount) Outputs {
	camPos, camRot := s.Rig.Camera(m)
	bodyPos, bodyRot := s.Body.World(s.Rig.Position, s.Rig.Orientation)
	a, b := s.Colors.Hex()
	return Outputs{
		RigPosition:    s.Rig.Position,
		RigOrientation: s.Rig.Orientation,
		Rail:           s.Rig.Rail,
		CameraPosition: camPos,
		CameraRotation: camRot,
		BodyPosition:   bodyPos,
		BodyRotation:   bodyRot,
		ColorA:         a,
		ColorB:         b,
	}
}
