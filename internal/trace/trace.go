// Package trace records a simulated flight frame by frame.
package trace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scrollrig/internal/config"
)

// Vec is [x, y, z].
type Vec []float64

// Frame is one control loop step as seen from outside.
type Frame struct {
	Index    int     `yaml:"frame"`
	Time     float64 `yaml:"t"`
	Delta    float64 `yaml:"dt"`
	Ratio    float64 `yaml:"ratio"`
	Progress float64 `yaml:"progress"`
	Position Vec     `yaml:"position,flow"`
	Look     Vec     `yaml:"look,flow"`
	Rail     float64 `yaml:"rail"`     // lateral rail offset
	Bank     float64 `yaml:"bank_deg"` // solved target bank
	Roll     float64 `yaml:"roll_deg"` // current body roll
	Near     int     `yaml:"near"`     // index of the point of interest in range, -1 if none
	ColorA   string  `yaml:"color_a"`
	ColorB   string  `yaml:"color_b"`
	Skipped  bool    `yaml:"skipped,omitempty"`
}

// Point is a point of interest as listed in the trace header.
type Point struct {
	Label    string `yaml:"label"`
	Position Vec    `yaml:"position,flow"`
}

type Trace struct {
	Scene    string          `yaml:"scene"`
	Tunables config.Tunables `yaml:"tunables"`
	Points   []Point         `yaml:"points"`
	Frames   []Frame         `yaml:"frames"`
}

// Label returns the label of point i, or a generated one.
func (t *Trace) Label(i int) string {
	if i >= 0 && i < len(t.Points) && t.Points[i].Label != "" {
		return t.Points[i].Label
	}
	return fmt.Sprintf("poi_%d", i+1)
}

// Accepted returns the frames the control loop did not reject.
func (t *Trace) Accepted() []Frame {
	out := make([]Frame, 0, len(t.Frames))
	for _, f := range t.Frames {
		if !f.Skipped {
			out = append(out, f)
		}
	}
	return out
}

func Write(t *Trace, path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Read(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &t, nil
}
