package scene

import "github.com/ivlev/scrollrig/internal/config"

// CurveSpacing is the distance between consecutive reference control points along -Z.
const CurveSpacing = 250.0

// PathDrop lowers the drawn path below the rig.
const PathDrop = -2.0

func anchor(i int) *int { return &i }

// Reference returns the built-in flight: a straight run-in, three lateral
// swings, a straight run-out and four text sections along the way.
func Reference() *Scene {
	const d = CurveSpacing
	return &Scene{
		Version: "1.0",
		Name:    "reference",
		Points: []Vec{
			{0, 0, 0},
			{0, 0, -d},
			{100, 0, -2 * d},
			{-100, 0, -3 * d},
			{100, 0, -4 * d},
			{0, 0, -5 * d},
			{0, 0, -6 * d},
			{0, 0, -7 * d},
		},
		Sections: []Section{
			{
				Anchor:        anchor(1),
				Offset:        Vec{-3, 0, 0},
				LateralOffset: -2,
				Title:         "Welcome",
				Subtitle:      "Have a seat and prepare yourself for the adventure!",
			},
			{
				Anchor:        anchor(2),
				Offset:        Vec{2, 0, 0},
				LateralOffset: 2.5,
				Title:         "Self introduction",
				Subtitle:      "A few words about who is flying this plane.",
			},
			{
				Anchor:        anchor(3),
				Offset:        Vec{-3, 0, 0},
				LateralOffset: -2,
				Title:         "Professional Journey",
				Subtitle:      "Exploring my career milestones and achievements.",
			},
			{
				Anchor:        anchor(4),
				Offset:        Vec{3.5, 0, -12},
				LateralOffset: 2.5,
				Title:         "Personal Interests",
				Subtitle:      "Exploring my hobbies and passions outside of work.",
			},
		},
		Colors: Colors{
			Start: ColorPair{A: "#000000", B: "#38CF00"},
			Segments: []ColorSegment{
				{Duration: 1, A: "#000000", B: "#F1F500"},
				{Duration: 1, A: "#000000", B: "#F59C00"},
				{Duration: 1, A: "#000000", B: "#F54A00"},
				{Duration: 1, A: "#000000", B: "#F51600"},
				{Duration: 1, A: "#000000", B: "#A90000"},
			},
		},
		Tunables: config.DefaultTunables(),
	}
}
