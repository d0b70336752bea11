// Package postfx holds post-processing parameters and the reference curves
// the GPU passes implement.
package postfx

import "math"

// BloomSettings controls the bloom pass.
type BloomSettings struct {
	Enabled   bool
	Threshold float32 // Luminance where bloom starts
	Intensity float32 // Strength of the added glow
	Smoothing float32 // Width of the soft knee above the threshold
	Passes    int     // Separable blur iterations
}

// DefaultBloom returns the reference bloom parameters.
func DefaultBloom() BloomSettings {
	return BloomSettings{
		Enabled:   true,
		Threshold: 0.8,
		Intensity: 0.5,
		Smoothing: 0.9,
		Passes:    5,
	}
}

// Luminance returns Rec. 709 relative luminance of a linear color.
func Luminance(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// BrightWeight returns how much of a pixel with luminance l passes the
// bright filter: 0 below threshold, 1 above threshold+smoothing, smoothstep between.
func (s BloomSettings) BrightWeight(l float32) float32 {
	return smoothstep(s.Threshold, s.Threshold+s.Smoothing, l)
}

func smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := min(max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

// ACESFilmic maps an HDR channel value into [0,1] using the Narkowicz fit.
func ACESFilmic(x float32) float32 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	x = max(x, 0)
	return min(max((x*(a*x+b))/(x*(c*x+d)+e), 0), 1)
}

// LinearToSRGB encodes a linear channel value for display.
func LinearToSRGB(c float32) float32 {
	c = min(max(c, 0), 1)
	if c <= 0.0031308 {
		return c * 12.92
	}
	return float32(1.055*math.Pow(float64(c), 1/2.4) - 0.055)
}

// GaussianWeights returns the normalized one-sided kernel of the given
// radius (weights[0] is the center tap).
func GaussianWeights(radius int) []float32 {
	if radius < 1 {
		return []float32{1}
	}
	sigma := float64(radius) / 2
	weights := make([]float32, radius+1)
	var sum float64
	for i := range weights {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		weights[i] = float32(w)
		if i == 0 {
			sum += w
		} else {
			sum += 2 * w
		}
	}
	for i := range weights {
		weights[i] = float32(float64(weights[i]) / sum)
	}
	return weights
}
