package director

import (
	"errors"
	"fmt"
	"math"
)

var ErrNoKeyframes = errors.New("scenario has no keyframes")

// Scenario is a scripted scroll session: the raw scroll ratio over time.
type Scenario struct {
	Version   string     `yaml:"version"`
	Name      string     `yaml:"name,omitempty"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe pins the scroll ratio at a moment of the session
type Keyframe struct {
	Time   float64 `yaml:"time"`            // Time offset in seconds
	Scroll float64 `yaml:"scroll"`          // Raw scroll ratio, normally in [0, 1]
	Focus  string  `yaml:"focus,omitempty"` // What the viewer should be looking at
}

// Duration returns the time of the last keyframe.
func (s *Scenario) Duration() float64 {
	if len(s.Keyframes) == 0 {
		return 0
	}
	return s.Keyframes[len(s.Keyframes)-1].Time
}

// Validate checks that keyframes exist, are finite and ordered by time.
func (s *Scenario) Validate() error {
	if len(s.Keyframes) == 0 {
		return ErrNoKeyframes
	}
	for i, kf := range s.Keyframes {
		if math.IsNaN(kf.Time) || math.IsInf(kf.Time, 0) || math.IsNaN(kf.Scroll) || math.IsInf(kf.Scroll, 0) {
			return fmt.Errorf("keyframe %d is not finite", i)
		}
		if kf.Time < 0 {
			return fmt.Errorf("keyframe %d: negative time %.3f", i, kf.Time)
		}
		if i > 0 && kf.Time < s.Keyframes[i-1].Time {
			return fmt.Errorf("keyframe %d: time %.3f is before previous %.3f", i, kf.Time, s.Keyframes[i-1].Time)
		}
	}
	return nil
}
