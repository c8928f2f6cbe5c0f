package analyzer

import (
	"math"

	"github.com/ivlev/scrollrig/internal/trace"
)

// BankDetector finds turns where the solved bank sits at its limit
type BankDetector struct {
	MaxBankDegrees float64
	Tolerance      float64 // Degrees below the limit still counted as saturated
	MinFrames      int
}

// NewBankDetector creates a detector for the given bank limit
func NewBankDetector(maxBankDegrees float64) *BankDetector {
	return &BankDetector{
		MaxBankDegrees: maxBankDegrees,
		Tolerance:      0.01,
		MinFrames:      1,
	}
}

// Detect returns one finding per saturated stretch, labelled with the turn direction
func (d *BankDetector) Detect(tr *trace.Trace) ([]Finding, error) {
	findings := []Finding{}
	limit := d.MaxBankDegrees - d.Tolerance

	var run []trace.Frame
	flush := func() {
		if len(run) >= d.MinFrames && len(run) > 0 {
			label := "left"
			if run[0].Bank < 0 {
				label = "right"
			}
			peak := 0.0
			for _, f := range run {
				peak = math.Max(peak, math.Abs(f.Bank))
			}
			findings = append(findings, Finding{
				Kind:       "bank",
				Start:      run[0].Index,
				End:        run[len(run)-1].Index,
				Label:      label,
				Value:      peak,
				Confidence: 1,
			})
		}
		run = run[:0]
	}

	for _, f := range tr.Accepted() {
		saturated := math.Abs(f.Bank) >= limit
		if !saturated || (len(run) > 0 && math.Signbit(run[0].Bank) != math.Signbit(f.Bank)) {
			flush()
		}
		if saturated {
			run = append(run, f)
		}
	}
	flush()

	return findings, nil
}
