package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string, maxBankDegrees float64) (Detector, error) {
	switch variant {
	case "dwell", "":
		return NewDwellDetector(), nil
	case "bank":
		return NewBankDetector(maxBankDegrees), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
