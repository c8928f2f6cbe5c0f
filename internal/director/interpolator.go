package director

import "github.com/tanema/gween/ease"

// ScrollAt calculates the raw scroll ratio at a given time by interpolating between keyframes
func ScrollAt(keyframes []Keyframe, currentTime float64) float64 {
	if len(keyframes) == 0 {
		return 0
	}

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		return keyframes[0].Scroll
	}

	// If after last keyframe, use last keyframe
	if currentTime >= keyframes[len(keyframes)-1].Time {
		return keyframes[len(keyframes)-1].Scroll
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	// Calculate interpolation factor (0.0 to 1.0)
	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		return nextKf.Scroll
	}
	t := (currentTime - prevKf.Time) / timeDelta

	// Smooth in-out, like a flick of the wheel
	t = easeInOutCubic(t)

	return lerp(prevKf.Scroll, nextKf.Scroll, t)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	return float64(ease.InOutCubic(float32(t), 0, 1, 1))
}
