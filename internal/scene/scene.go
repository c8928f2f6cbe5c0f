// Package scene holds the authored inputs of a flight: control points, points
// of interest, the background color timeline and tunable overrides.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/poi"
	"github.com/ivlev/scrollrig/internal/timeline"
)

var ErrInvalid = errors.New("invalid scene")

// Vec is a point written as [x, y, z].
type Vec []float64

func (v Vec) vec3() (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected [x, y, z], got %d values", len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

// Scene is the YAML representation of a flight.
type Scene struct {
	Version  string          `yaml:"version"`
	Name     string          `yaml:"name"`
	Points   []Vec           `yaml:"points"`
	Sections []Section       `yaml:"sections"`
	Colors   Colors          `yaml:"colors"`
	Tunables config.Tunables `yaml:"tunables,omitempty"`
}

// Section is a point of interest with its text. Anchor selects a control
// point that Offset is added to; without an anchor Position is used as is.
type Section struct {
	Anchor        *int    `yaml:"anchor,omitempty"`
	Offset        Vec     `yaml:"offset,omitempty"`
	Position      Vec     `yaml:"position,omitempty"`
	LateralOffset float64 `yaml:"lateral_offset"`
	Title         string  `yaml:"title"`
	Subtitle      string  `yaml:"subtitle"`
}

// Colors is the background timeline: a start pair and tweens played in order.
type Colors struct {
	Start    ColorPair      `yaml:"start"`
	Segments []ColorSegment `yaml:"segments"`
}

type ColorPair struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

type ColorSegment struct {
	Duration float64 `yaml:"duration"`
	A        string  `yaml:"a"`
	B        string  `yaml:"b"`
	Ease     string  `yaml:"ease,omitempty"`
}

// Built is a scene turned into the runtime objects of the control loop.
type Built struct {
	Curve    *curve.Curve
	Points   []poi.PointOfInterest
	Timeline *timeline.Timeline
	Tunables config.Tunables
}

// Build validates the scene and constructs the curve, the point list and the
// timeline. A scene without tunables uses the defaults.
func (s *Scene) Build() (*Built, error) {
	tun := s.Tunables
	if tun == (config.Tunables{}) {
		tun = config.DefaultTunables()
	}
	if err := tun.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	controls := make([]mgl64.Vec3, len(s.Points))
	for i, p := range s.Points {
		v, err := p.vec3()
		if err != nil {
			return nil, fmt.Errorf("%w: point %d: %w", ErrInvalid, i, err)
		}
		controls[i] = v
	}

	c, err := curve.New(controls, curve.Options{
		Kind:         curve.Kind(tun.CurveKind),
		Tension:      tun.Tension,
		Samples:      tun.LineSamples,
		ArcDivisions: curve.DefaultOptions().ArcDivisions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	points, err := s.pointsOfInterest(controls)
	if err != nil {
		return nil, err
	}

	tl, err := s.Colors.build()
	if err != nil {
		return nil, fmt.Errorf("%w: colors: %w", ErrInvalid, err)
	}

	return &Built{Curve: c, Points: points, Timeline: tl, Tunables: tun}, nil
}

func (s *Scene) pointsOfInterest(controls []mgl64.Vec3) ([]poi.PointOfInterest, error) {
	points := make([]poi.PointOfInterest, 0, len(s.Sections))
	for i, sec := range s.Sections {
		var pos mgl64.Vec3
		switch {
		case sec.Anchor != nil:
			if *sec.Anchor < 0 || *sec.Anchor >= len(controls) {
				return nil, fmt.Errorf("%w: section %d: anchor %d out of range", ErrInvalid, i, *sec.Anchor)
			}
			pos = controls[*sec.Anchor]
			if len(sec.Offset) > 0 {
				off, err := sec.Offset.vec3()
				if err != nil {
					return nil, fmt.Errorf("%w: section %d offset: %w", ErrInvalid, i, err)
				}
				pos = pos.Add(off)
			}
		default:
			v, err := sec.Position.vec3()
			if err != nil {
				return nil, fmt.Errorf("%w: section %d position: %w", ErrInvalid, i, err)
			}
			pos = v
		}
		points = append(points, poi.PointOfInterest{
			Position:      pos,
			LateralOffset: sec.LateralOffset,
			Label:         sec.Title,
			Description:   sec.Subtitle,
		})
	}
	return points, nil
}

// build returns nil when no segments are authored.
func (c Colors) build() (*timeline.Timeline, error) {
	if len(c.Segments) == 0 {
		return nil, nil
	}
	start, err := timeline.ParsePair(c.Start.A, c.Start.B)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	segs := make([]timeline.Segment, len(c.Segments))
	for i, seg := range c.Segments {
		target, err := timeline.ParsePair(seg.A, seg.B)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segs[i] = timeline.Segment{Duration: seg.Duration, Target: target, Ease: seg.Ease}
	}
	return timeline.New(start, segs)
}
