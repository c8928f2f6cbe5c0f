package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Reference tuning of the scroll rig.
const (
	FrictionDistance  = 42.0  // radius around a point of interest that slows progress
	MinFriction       = 0.005 // friction floor right on top of a point of interest
	CameraLookahead   = 0.008 // parameter offset of the camera look-at sample
	BodyLookahead     = 0.02  // parameter offset of the banking tangent sample
	PositionGain      = 24.0  // rig position and look-direction catch-up rate
	OrientationGain   = 2.0   // body banking catch-up rate
	RailGain          = 1.0   // rail offset catch-up rate
	MaxBankDegrees    = 35.0
	BankAmplification = 2.4
	LineSamples       = 1000
	Tension           = 0.5
	CurveKind         = "catmullrom"
)

var ErrInvalidTunables = errors.New("invalid tunables")

// Tunables are the named constants of the control loop. Scene files may
// override any of them; omitted keys take the defaults.
type Tunables struct {
	FrictionDistance  float64 `yaml:"friction_distance"`
	MinFriction       float64 `yaml:"min_friction"`
	CameraLookahead   float64 `yaml:"camera_lookahead"`
	BodyLookahead     float64 `yaml:"body_lookahead"`
	PositionGain      float64 `yaml:"position_gain"`
	OrientationGain   float64 `yaml:"orientation_gain"`
	RailGain          float64 `yaml:"rail_gain"`
	MaxBankDegrees    float64 `yaml:"max_bank_degrees"`
	BankAmplification float64 `yaml:"bank_amplification"`
	LineSamples       int     `yaml:"line_samples"`
	Tension           float64 `yaml:"tension"`
	CurveKind         string  `yaml:"curve_kind"`
}

// DefaultTunables returns the reference tuning.
func DefaultTunables() Tunables {
	return Tunables{
		FrictionDistance:  FrictionDistance,
		MinFriction:       MinFriction,
		CameraLookahead:   CameraLookahead,
		BodyLookahead:     BodyLookahead,
		PositionGain:      PositionGain,
		OrientationGain:   OrientationGain,
		RailGain:          RailGain,
		MaxBankDegrees:    MaxBankDegrees,
		BankAmplification: BankAmplification,
		LineSamples:       LineSamples,
		Tension:           Tension,
		CurveKind:         CurveKind,
	}
}

// UnmarshalYAML decodes t over the defaults, so keys absent from the document
// keep their default value and keys set to zero stay zero.
func (t *Tunables) UnmarshalYAML(value *yaml.Node) error {
	type plain Tunables
	p := plain(DefaultTunables())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Tunables(p)
	return nil
}

// Validate checks that every tunable is usable by the control loop.
func (t Tunables) Validate() error {
	switch {
	case t.FrictionDistance <= 0:
		return fmt.Errorf("%w: friction_distance must be positive, got %v", ErrInvalidTunables, t.FrictionDistance)
	case t.MinFriction <= 0 || t.MinFriction > 1:
		return fmt.Errorf("%w: min_friction must be in (0, 1], got %v", ErrInvalidTunables, t.MinFriction)
	case t.CameraLookahead < 0 || t.BodyLookahead < 0:
		return fmt.Errorf("%w: lookaheads must not be negative", ErrInvalidTunables)
	case t.PositionGain <= 0 || t.OrientationGain <= 0 || t.RailGain <= 0:
		return fmt.Errorf("%w: gains must be positive", ErrInvalidTunables)
	case t.MaxBankDegrees < 0 || t.MaxBankDegrees > 90:
		return fmt.Errorf("%w: max_bank_degrees must be in [0, 90], got %v", ErrInvalidTunables, t.MaxBankDegrees)
	case t.LineSamples < 1:
		return fmt.Errorf("%w: line_samples must be at least 1", ErrInvalidTunables)
	}
	return nil
}

// Config holds the settings of one offline flight run.
type Config struct {
	ScenePath    string
	ScenarioPath string
	OutputDir    string
	TracePath    string
	FPS          int
	RampFrames   int // frames to sweep the scroll ratio from 0 to 1 when no scenario is given
	HoldFrames   int // frames to keep the ratio at its final value afterwards
	Workers      int

	PreviewWidth  int
	PreviewHeight int
	PreviewStride int // render every Nth frame, 0 disables previews

	RenderVideo  bool
	VideoEncoder string
	Quality      int

	ShowStats    bool
	BuildVersion string
}
