// Package timeline seeks a fixed sequence of background color tweens by progress.
package timeline

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrNoSegments = errors.New("timeline: at least one segment is required")

// Pair is the two background gradient colors.
type Pair struct {
	A colorful.Color
	B colorful.Color
}

// ParsePair reads a pair of "#RRGGBB" colors.
func ParsePair(a, b string) (Pair, error) {
	ca, err := colorful.Hex(a)
	if err != nil {
		return Pair{}, fmt.Errorf("timeline: color A: %w", err)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return Pair{}, fmt.Errorf("timeline: color B: %w", err)
	}
	return Pair{A: ca, B: cb}, nil
}

// Hex returns both colors as "#rrggbb".
func (p Pair) Hex() (string, string) {
	return p.A.Clamped().Hex(), p.B.Clamped().Hex()
}

// Blend interpolates from p to q in sRGB space.
func (p Pair) Blend(q Pair, t float64) Pair {
	return Pair{A: p.A.BlendRgb(q.A, t), B: p.B.BlendRgb(q.B, t)}
}

// Segment tweens the pair from wherever the previous segment ended to Target.
type Segment struct {
	Duration float64
	Target   Pair
	Ease     string
}

type span struct {
	start, end float64
	from, to   Pair
	ease       Ease
}

// Timeline is immutable once built; Scrub has no side effects.
type Timeline struct {
	start Pair
	spans []span
	total float64
}

// New validates the segments and lays them end to end.
func New(start Pair, segments []Segment) (*Timeline, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	tl := &Timeline{start: start, spans: make([]span, 0, len(segments))}
	from := start
	for i, seg := range segments {
		if !(seg.Duration > 0) {
			return nil, fmt.Errorf("timeline: segment %d: duration must be positive, got %v", i, seg.Duration)
		}
		ease, err := LookupEase(seg.Ease)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		tl.spans = append(tl.spans, span{
			start: tl.total,
			end:   tl.total + seg.Duration,
			from:  from,
			to:    seg.Target,
			ease:  ease,
		})
		tl.total += seg.Duration
		from = seg.Target
	}
	return tl, nil
}

// Duration is the summed length of all segments.
func (tl *Timeline) Duration() float64 {
	return tl.total
}

// Start returns the colors before the first segment runs.
func (tl *Timeline) Start() Pair {
	return tl.start
}

// End returns the target of the last segment.
func (tl *Timeline) End() Pair {
	return tl.spans[len(tl.spans)-1].to
}

// Scrub returns the colors at progress*Duration(). progress is clamped to [0, 1].
func (tl *Timeline) Scrub(progress float64) Pair {
	if !(progress > 0) {
		return tl.start
	}
	if progress >= 1 {
		return tl.End()
	}

	at := progress * tl.total
	for _, sp := range tl.spans {
		if at > sp.end {
			continue
		}
		local := (at - sp.start) / (sp.end - sp.start)
		return sp.from.Blend(sp.to, sp.ease(local))
	}
	return tl.End()
}
