package director

import (
	"fmt"
	"sort"

	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/poi"
)

// Director writes scroll scenarios that visit every point of interest
type Director struct {
	Curve     *curve.Curve
	MinDwell  float64 // Minimum time spent at a point (seconds)
	MaxDwell  float64 // Maximum time spent at a point (seconds)
	MinTravel float64 // Minimum time between two stops (seconds)
}

// NewDirector creates a new Director with default settings
func NewDirector(c *curve.Curve) *Director {
	return &Director{
		Curve:     c,
		MinDwell:  1.0,
		MaxDwell:  3.0,
		MinTravel: 0.5,
	}
}

// stop is a point of interest projected onto the curve parameter
type stop struct {
	param float64
	label string
}

// GenerateScenario creates a scenario that scrolls from start to finish in
// totalDuration seconds and holds the wheel still at each point of interest.
// Without points the scenario is a plain sweep.
func (d *Director) GenerateScenario(points []poi.PointOfInterest, totalDuration float64) (*Scenario, error) {
	if !(totalDuration > 0) {
		return nil, fmt.Errorf("total duration must be positive, got %v", totalDuration)
	}
	if d.Curve == nil {
		return nil, fmt.Errorf("director has no curve")
	}

	// Visit stops in travel order, not authored order
	stops := d.sortStops(points)

	dwellTime := d.calculateDwellTime(totalDuration, len(stops))
	travelTime := (totalDuration - dwellTime*float64(len(stops))) / float64(len(stops)+1)
	if travelTime < d.MinTravel {
		travelTime = d.MinTravel
	}

	return &Scenario{
		Version:   "1.0",
		Name:      fmt.Sprintf("dwell_%d", len(stops)),
		Keyframes: d.generateKeyframes(stops, dwellTime, travelTime),
	}, nil
}

// sortStops orders points by where the curve passes closest to them
func (d *Director) sortStops(points []poi.PointOfInterest) []stop {
	stops := make([]stop, 0, len(points))
	for i, p := range points {
		label := p.Label
		if label == "" {
			label = fmt.Sprintf("poi_%d", i+1)
		}
		stops = append(stops, stop{param: d.Curve.Nearest(p.Position), label: label})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].param < stops[j].param
	})
	return stops
}

// calculateDwellTime determines how long to hold at each stop
func (d *Director) calculateDwellTime(totalDuration float64, stopCount int) float64 {
	if stopCount == 0 {
		return 0
	}

	// Half of the session is spent travelling
	dwellTime := totalDuration / 2 / float64(stopCount)

	// Clamp to min/max
	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}

	return dwellTime
}

// generateKeyframes creates arrive/leave pairs around every stop
func (d *Director) generateKeyframes(stops []stop, dwellTime, travelTime float64) []Keyframe {
	keyframes := []Keyframe{{Time: 0, Scroll: 0, Focus: "start"}}

	currentTime := 0.0
	for _, s := range stops {
		currentTime += travelTime
		keyframes = append(keyframes, Keyframe{Time: currentTime, Scroll: s.param, Focus: s.label})
		currentTime += dwellTime
		keyframes = append(keyframes, Keyframe{Time: currentTime, Scroll: s.param, Focus: s.label})
	}

	currentTime += travelTime
	keyframes = append(keyframes, Keyframe{Time: currentTime, Scroll: 1, Focus: "finish"})

	return keyframes
}
