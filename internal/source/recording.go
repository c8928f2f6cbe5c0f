package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recording is a captured host session, one entry per rendered frame.
// Frames may carry zero or negative deltas, as hosts sometimes report.
type Recording struct {
	Frames []Input `yaml:"frames"`
}

// RecordingSource replays a Recording.
type RecordingSource struct {
	frames []Input
}

func NewRecordingSource(r Recording) *RecordingSource {
	frames := make([]Input, len(r.Frames))
	copy(frames, r.Frames)
	return &RecordingSource{frames: frames}
}

// ReadRecording loads a recording from a YAML file.
func ReadRecording(path string) (*RecordingSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Recording
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(r.Frames) == 0 {
		return nil, fmt.Errorf("%s: recording has no frames", path)
	}
	return NewRecordingSource(r), nil
}

// WriteRecording stores r as YAML.
func WriteRecording(r Recording, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *RecordingSource) FrameCount() int {
	return len(s.frames)
}

func (s *RecordingSource) Input(index int) (Input, error) {
	if err := checkIndex(index, len(s.frames)); err != nil {
		return Input{}, err
	}
	return s.frames[index], nil
}

func (s *RecordingSource) Close() error {
	return nil
}
