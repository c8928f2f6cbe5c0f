package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/curve"
)

func TestReferenceBuilds(t *testing.T) {
	b, err := Reference().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if b.Curve.Kind() != curve.CatmullRom || b.Curve.Tension() != 0.5 {
		t.Errorf("curve = %s/%v, want catmullrom/0.5", b.Curve.Kind(), b.Curve.Tension())
	}
	if n := len(b.Curve.Polyline()); n != config.LineSamples+1 {
		t.Errorf("polyline has %d points, want %d", n, config.LineSamples+1)
	}
	if b.Tunables != config.DefaultTunables() {
		t.Errorf("tunables = %+v, want defaults", b.Tunables)
	}

	want := []struct {
		pos    mgl64.Vec3
		offset float64
	}{
		{mgl64.Vec3{-3, 0, -250}, -2},
		{mgl64.Vec3{102, 0, -500}, 2.5},
		{mgl64.Vec3{-103, 0, -750}, -2},
		{mgl64.Vec3{103.5, 0, -1012}, 2.5},
	}
	if len(b.Points) != len(want) {
		t.Fatalf("got %d points of interest, want %d", len(b.Points), len(want))
	}
	for i, w := range want {
		if b.Points[i].Position != w.pos || b.Points[i].LateralOffset != w.offset {
			t.Errorf("point %d = %v/%v, want %v/%v", i, b.Points[i].Position, b.Points[i].LateralOffset, w.pos, w.offset)
		}
	}

	a, bb := b.Timeline.Scrub(1).Hex()
	if a != "#000000" || bb != "#a90000" {
		t.Errorf("final colors = %s/%s", a, bb)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Write(Reference(), path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	s, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if s.Name != "reference" || len(s.Points) != 8 || len(s.Sections) != 4 {
		t.Errorf("read back %q with %d points and %d sections", s.Name, len(s.Points), len(s.Sections))
	}
	if s.Sections[3].Anchor == nil || *s.Sections[3].Anchor != 4 {
		t.Errorf("anchor of section 3 lost: %v", s.Sections[3].Anchor)
	}
	if _, err := s.Build(); err != nil {
		t.Errorf("Build after round trip failed: %v", err)
	}
}

func TestOmittedTunablesUseDefaults(t *testing.T) {
	doc := `
name: short
points:
  - [0, 0, 0]
  - [0, 0, -10]
  - [0, 0, -20]
  - [0, 0, -30]
sections:
  - position: [0, 0, -15]
    lateral_offset: 1
    title: middle
tunables:
  friction_distance: 5
`
	path := filepath.Join(t.TempDir(), "short.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	b, err := s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.Tunables.FrictionDistance != 5 {
		t.Errorf("friction distance = %v, want 5", b.Tunables.FrictionDistance)
	}
	if b.Tunables.PositionGain != config.PositionGain {
		t.Errorf("position gain = %v, want default %v", b.Tunables.PositionGain, config.PositionGain)
	}
	if b.Timeline != nil {
		t.Error("expected no timeline without color segments")
	}
	if math.Abs(b.Curve.Length()-30) > 1e-6 {
		t.Errorf("length = %v, want 30", b.Curve.Length())
	}
}

func TestExplicitZeroTunablesSurvive(t *testing.T) {
	doc := `
name: straight
points:
  - [0, 0, 0]
  - [0, 0, -10]
  - [0, 0, -20]
  - [0, 0, -30]
tunables:
  tension: 0
  body_lookahead: 0
`
	path := filepath.Join(t.TempDir(), "straight.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	b, err := s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.Curve.Tension() != 0 || b.Tunables.BodyLookahead != 0 {
		t.Errorf("tension/body lookahead = %v/%v, want 0/0", b.Curve.Tension(), b.Tunables.BodyLookahead)
	}
	if b.Tunables.FrictionDistance != config.FrictionDistance {
		t.Errorf("friction distance = %v, want default", b.Tunables.FrictionDistance)
	}
}

func TestBuildRejectsInvalidScenes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scene)
	}{
		{"too few points", func(s *Scene) { s.Points = s.Points[:3] }},
		{"short vector", func(s *Scene) { s.Points[2] = Vec{1, 2} }},
		{"anchor out of range", func(s *Scene) { s.Sections[0].Anchor = anchor(99) }},
		{"missing position", func(s *Scene) { s.Sections[0].Anchor = nil; s.Sections[0].Position = nil }},
		{"bad color", func(s *Scene) { s.Colors.Segments[1].B = "orange" }},
		{"bad ease", func(s *Scene) { s.Colors.Segments[0].Ease = "elastic" }},
		{"bad tunable", func(s *Scene) { s.Tunables.MinFriction = 2 }},
		{"unknown curve kind", func(s *Scene) { s.Tunables.CurveKind = "bezier" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reference()
			tt.mutate(s)
			if _, err := s.Build(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadDefaultsToReference(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "reference" {
		t.Errorf("Load(\"\") = %q, want reference", s.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
