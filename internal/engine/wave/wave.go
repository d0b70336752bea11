// Package wave evaluates the procedural wind displacement applied to the flag.
package wave

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Params holds amplitudes and spatial frequencies of the three sine terms.
type Params struct {
	A1, A2, A3 float32
	F1, F2, F3 float32
}

// DefaultParams returns the reference wave shape.
func DefaultParams() Params {
	return Params{
		A1: 0.3, A2: 0.15, A3: 0.1,
		F1: 2, F2: 3, F3: 6,
	}
}

// Displacement returns the z offset at rest coordinate (x, y) for elapsed
// time t and wind speed w.
//
// Two terms travel along x at rates w and 2w, a third along y at 0.5w.
// With w == 0 the result no longer depends on t.
func Displacement(p Params, x, y, t, w float32) float32 {
	tw := float64(t) * float64(w)
	z := float64(p.A1)*math.Sin(float64(x*p.F1)+tw) +
		float64(p.A2)*math.Sin(float64(x*p.F2)+2*tw) +
		float64(p.A3)*math.Sin(float64(y*p.F3)+0.5*tw)
	return float32(z)
}

// minChunk is the smallest vertex range handed to a single goroutine.
const minChunk = 256

// Evaluator writes displaced positions for a whole vertex buffer.
type Evaluator struct {
	Params Params

	// Workers splits the vertex range into contiguous chunks evaluated
	// concurrently. Values below 2 evaluate serially.
	Workers int
}

// NewEvaluator creates an evaluator with the reference parameters.
func NewEvaluator(workers int) *Evaluator {
	return &Evaluator{Params: DefaultParams(), Workers: workers}
}

// Apply recomputes positions (xyz interleaved) from the rest layout.
// Only z is derived from the wave field; x and y are copied from rest.
// Nothing is written when the buffer sizes disagree.
func (e *Evaluator) Apply(rest []mgl32.Vec3, positions []float32, t, w float32) error {
	if len(positions) != len(rest)*3 {
		return fmt.Errorf("wave: position buffer has %d floats, want %d", len(positions), len(rest)*3)
	}

	n := len(rest)
	workers := e.Workers
	if workers < 2 || n < minChunk*2 {
		e.applyRange(rest, positions, 0, n, t, w)
		return nil
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			e.applyRange(rest, positions, start, end, t, w)
			return nil
		})
	}
	return g.Wait()
}

func (e *Evaluator) applyRange(rest []mgl32.Vec3, positions []float32, start, end int, t, w float32) {
	for i := start; i < end; i++ {
		r := rest[i]
		o := i * 3
		positions[o] = r[0]
		positions[o+1] = r[1]
		positions[o+2] = Displacement(e.Params, r[0], r[1], t, w)
	}
}

// Period returns the time after which the field repeats for wind speed w,
// or 0 when w is 0 (static field).
func Period(w float32) float32 {
	if w == 0 {
		return 0
	}
	// The slowest term advances at 0.5w.
	return float32(4 * math.Pi / math.Abs(float64(w)))
}
