// Package source supplies the per-frame host input of a flight: the frame
// delta time and the raw scroll ratio.
package source

import (
	"fmt"

	"github.com/ivlev/scrollrig/internal/director"
)

// Input is what the host hands the control loop each frame.
type Input struct {
	Delta float64 `yaml:"dt"`
	Ratio float64 `yaml:"ratio"`
}

type Source interface {
	FrameCount() int
	Input(index int) (Input, error)
	Close() error
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("frame %d out of range [0, %d)", index, count)
	}
	return nil
}

// RampSource sweeps the ratio linearly from 0 to 1 over Frames frames at a
// fixed rate, then holds it at 1 for Hold frames.
type RampSource struct {
	Frames int
	Hold   int
	FPS    int
}

func NewRampSource(frames, hold, fps int) (*RampSource, error) {
	if frames < 2 {
		return nil, fmt.Errorf("ramp needs at least 2 frames, got %d", frames)
	}
	if hold < 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid ramp: hold=%d fps=%d", hold, fps)
	}
	return &RampSource{Frames: frames, Hold: hold, FPS: fps}, nil
}

func (r *RampSource) FrameCount() int {
	return r.Frames + r.Hold
}

func (r *RampSource) Input(index int) (Input, error) {
	if err := checkIndex(index, r.FrameCount()); err != nil {
		return Input{}, err
	}
	ratio := 1.0
	if index < r.Frames {
		ratio = float64(index) / float64(r.Frames-1)
	}
	return Input{Delta: 1 / float64(r.FPS), Ratio: ratio}, nil
}

func (r *RampSource) Close() error {
	return nil
}

// ScenarioSource samples a scripted scroll session at a fixed frame rate.
type ScenarioSource struct {
	scenario *director.Scenario
	fps      int
	frames   int
}

func NewScenarioSource(s *director.Scenario, fps int) (*ScenarioSource, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	frames := int(s.Duration()*float64(fps)) + 1
	return &ScenarioSource{scenario: s, fps: fps, frames: frames}, nil
}

func (s *ScenarioSource) FrameCount() int {
	return s.frames
}

// Input returns the scroll ratio at the end of frame index.
func (s *ScenarioSource) Input(index int) (Input, error) {
	if err := checkIndex(index, s.frames); err != nil {
		return Input{}, err
	}
	dt := 1 / float64(s.fps)
	t := float64(index+1) * dt
	return Input{Delta: dt, Ratio: director.ScrollAt(s.scenario.Keyframes, t)}, nil
}

func (s *ScenarioSource) Close() error {
	return nil
}
