package director

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/curve"
	"github.com/ivlev/scrollrig/internal/poi"
)

func testCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.New([]mgl64.Vec3{
		{0, 0, 0},
		{0, 0, -250},
		{100, 0, -500},
		{-100, 0, -750},
		{100, 0, -1000},
		{0, 0, -1250},
		{0, 0, -1500},
		{0, 0, -1750},
	}, curve.DefaultOptions())
	if err != nil {
		t.Fatalf("curve.New failed: %v", err)
	}
	return c
}

func TestDirector(t *testing.T) {
	director := NewDirector(testCurve(t))

	// authored out of travel order on purpose
	points := []poi.PointOfInterest{
		{Position: mgl64.Vec3{-103, 0, -750}, Label: "journey"},
		{Position: mgl64.Vec3{-3, 0, -250}, Label: "welcome"},
	}

	scenario, err := director.GenerateScenario(points, 20.0)
	if err != nil {
		t.Fatalf("GenerateScenario failed: %v", err)
	}
	if err := scenario.Validate(); err != nil {
		t.Fatalf("generated scenario is invalid: %v", err)
	}

	if scenario.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", scenario.Version)
	}

	// start + 2 per stop + finish
	kfs := scenario.Keyframes
	if len(kfs) != 6 {
		t.Fatalf("Expected 6 keyframes, got %d", len(kfs))
	}
	if kfs[1].Focus != "welcome" || kfs[3].Focus != "journey" {
		t.Errorf("stops not in travel order: %s, %s", kfs[1].Focus, kfs[3].Focus)
	}
	if math.Abs(kfs[1].Scroll-1.0/7) > 0.005 || math.Abs(kfs[3].Scroll-3.0/7) > 0.005 {
		t.Errorf("stop ratios = %.4f, %.4f", kfs[1].Scroll, kfs[3].Scroll)
	}
	if kfs[1].Scroll != kfs[2].Scroll {
		t.Error("scroll should hold still while dwelling")
	}
	if kfs[len(kfs)-1].Scroll != 1 {
		t.Errorf("scenario should finish at 1, got %v", kfs[len(kfs)-1].Scroll)
	}

	// 2 stops * 3s dwell + 3 * 14/3s travel
	if math.Abs(scenario.Duration()-20) > 1e-9 {
		t.Errorf("Duration() = %v, want 20", scenario.Duration())
	}

	for i, kf := range kfs {
		t.Logf("Keyframe %d: time=%.2fs, scroll=%.4f, focus=%s", i, kf.Time, kf.Scroll, kf.Focus)
	}
}

func TestDirectorWithoutPoints(t *testing.T) {
	scenario, err := NewDirector(testCurve(t)).GenerateScenario(nil, 8)
	if err != nil {
		t.Fatalf("GenerateScenario failed: %v", err)
	}
	if len(scenario.Keyframes) != 2 || scenario.Duration() != 8 {
		t.Errorf("expected a single 8s sweep, got %+v", scenario.Keyframes)
	}

	if _, err := NewDirector(testCurve(t)).GenerateScenario(nil, 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestScenarioWriteRead(t *testing.T) {
	scenario := &Scenario{
		Version: "1.0",
		Name:    "manual",
		Keyframes: []Keyframe{
			{Time: 0.0, Scroll: 0, Focus: "start"},
			{Time: 2.5, Scroll: 0.3, Focus: "welcome"},
			{Time: 6.0, Scroll: 1, Focus: "finish"},
		},
	}

	tmpFile := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := WriteScenario(scenario, tmpFile); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	readScenario, err := ReadScenario(tmpFile)
	if err != nil {
		t.Fatalf("ReadScenario failed: %v", err)
	}

	if readScenario.Version != scenario.Version {
		t.Errorf("Version mismatch: expected %s, got %s", scenario.Version, readScenario.Version)
	}
	if len(readScenario.Keyframes) != len(scenario.Keyframes) {
		t.Fatalf("Keyframe count mismatch: expected %d, got %d", len(scenario.Keyframes), len(readScenario.Keyframes))
	}
	if readScenario.Keyframes[1] != scenario.Keyframes[1] {
		t.Errorf("Keyframe mismatch: expected %+v, got %+v", scenario.Keyframes[1], readScenario.Keyframes[1])
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name      string
		keyframes []Keyframe
		wantErr   bool
	}{
		{"empty", nil, true},
		{"single", []Keyframe{{Time: 0, Scroll: 0.5}}, false},
		{"ordered", []Keyframe{{Time: 0}, {Time: 1, Scroll: 1}}, false},
		{"backwards", []Keyframe{{Time: 2}, {Time: 1}}, true},
		{"negative time", []Keyframe{{Time: -1}}, true},
		{"nan scroll", []Keyframe{{Time: 0, Scroll: math.NaN()}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Scenario{Keyframes: tt.keyframes}).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
