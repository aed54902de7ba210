package types

import (
	"fmt"
	"math"
)

const (
	DefaultTolerance     = 1e-4
	DefaultMaxIterations = 100
)

// Solver configures the Newton-Raphson root finder used for yield to maturity.
// Zero fields fall back to DefaultTolerance and DefaultMaxIterations.
type Solver struct {
	Tolerance     float64
	MaxIterations int
}

var DefaultSolver = Solver{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}

func (s Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

func (s Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

// Solve finds a root of f starting at seed. f returns the function value and
// its derivative at y. Iteration stops once a step is smaller than the tolerance.
func (s Solver) Solve(f func(y float64) (float64, float64), seed float64) (float64, error) {
	y := seed
	t := s.tolerance()
	i := s.maxIterations()

	for range i {
		v, d := f(y)
		if math.Abs(d) < 1e-12 || math.IsNaN(d) {
			return 0, fmt.Errorf("%w at y=%g", ErrYieldToMaturityDerivativeTooSmall, y)
		}

		dy := v / d
		y -= dy

		if math.IsNaN(y) || math.IsInf(y, 0) {
			break
		}

		if math.Abs(dy) < t {
			return y, nil
		}
	}

	return 0, fmt.Errorf("%w (%d iterations, tolerance %g)", ErrYieldToMaturityNoConvergence, i, t)
}
