package analyzer

import "github.com/ivlev/scrollrig/internal/trace"

// Finding is a span of frames that a detector flagged
type Finding struct {
	Kind       string  // "dwell", "bank"
	Start, End int     // first and last frame index, inclusive
	Label      string  // point of interest or turn direction
	Value      float64 // detector specific: mean speed, peak bank
	Confidence float64 // 0.0-1.0
}

// Frames returns the number of frames covered
func (f Finding) Frames() int {
	return f.End - f.Start + 1
}

// Detector is the interface for trace analysis strategies
type Detector interface {
	Detect(tr *trace.Trace) ([]Finding, error)
}
