package timeline

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// Ease maps normalized segment time in [0, 1] to interpolation weight.
type Ease func(t float64) float64

// DefaultEase is used when a segment names no ease.
const DefaultEase = "power1.out"

// normalized adapts a tween function to the unit range.
func normalized(fn ease.TweenFunc) Ease {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// power1 is quadratic and power2 cubic, as in GSAP.
var eases = map[string]Ease{
	"linear": normalized(ease.Linear),
	"none":   normalized(ease.Linear),

	"power1.in":    normalized(ease.InQuad),
	"power1.out":   normalized(ease.OutQuad),
	"power1.inOut": normalized(ease.InOutQuad),

	"power2.in":    normalized(ease.InCubic),
	"power2.out":   normalized(ease.OutCubic),
	"power2.inOut": normalized(ease.InOutCubic),

	"sine.in":    normalized(ease.InSine),
	"sine.out":   normalized(ease.OutSine),
	"sine.inOut": normalized(ease.InOutSine),
}

// LookupEase returns the named ease. An empty name selects DefaultEase.
func LookupEase(name string) (Ease, error) {
	if name == "" {
		name = DefaultEase
	}
	e, ok := eases[name]
	if !ok {
		return nil, fmt.Errorf("timeline: unknown ease %q (known: %v)", name, EaseNames())
	}
	return e, nil
}

// EaseNames lists the registered eases in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for n := range eases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
