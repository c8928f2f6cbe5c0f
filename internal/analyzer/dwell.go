package analyzer

import (
	"math"

	"github.com/ivlev/scrollrig/internal/trace"
)

// DwellDetector finds stretches where progress crawls near a point of interest
type DwellDetector struct {
	MaxSpeed  float64 // Progress per second below which the rig counts as dwelling
	MinFrames int     // Shorter stretches are ignored
}

// NewDwellDetector creates a detector with default settings
func NewDwellDetector() *DwellDetector {
	return &DwellDetector{
		MaxSpeed:  0.01, // ~1% of the path per second
		MinFrames: 10,
	}
}

// Detect groups consecutive slow frames that share the same point of interest
func (d *DwellDetector) Detect(tr *trace.Trace) ([]Finding, error) {
	frames := tr.Accepted()
	findings := []Finding{}

	var run []trace.Frame
	flush := func() {
		if len(run) >= d.MinFrames {
			findings = append(findings, d.finding(tr, run))
		}
		run = run[:0]
	}

	for i := 1; i < len(frames); i++ {
		f := frames[i]
		speed := math.Abs(f.Progress-frames[i-1].Progress) / f.Delta
		slow := f.Near >= 0 && f.Delta > 0 && speed < d.MaxSpeed
		if !slow || (len(run) > 0 && run[0].Near != f.Near) {
			flush()
		}
		if slow {
			run = append(run, f)
		}
	}
	flush()

	return findings, nil
}

func (d *DwellDetector) finding(tr *trace.Trace, run []trace.Frame) Finding {
	first, last := run[0], run[len(run)-1]
	elapsed := last.Time - first.Time
	mean := 0.0
	if elapsed > 0 {
		mean = math.Abs(last.Progress-first.Progress) / elapsed
	}
	return Finding{
		Kind:       "dwell",
		Start:      first.Index,
		End:        last.Index,
		Label:      tr.Label(first.Near),
		Value:      mean,
		Confidence: math.Min(1, float64(len(run))/float64(4*d.MinFrames)),
	}
}
