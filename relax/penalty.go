package relax

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/planmath/mip/core"
)

// PenaltySolver handles nonlinear relaxations by minimizing the
// quadratic-penalty merit function
//
//	f(x) + μ·Σ max(0, violation_i(x))²
//
// with gonum/optimize (Nelder–Mead, gradient-free), escalating μ until
// the worst constraint violation drops below Tolerance or the
// escalation rounds run out. It publishes no tableau.
type PenaltySolver struct {
	// Penalty is the initial penalty weight μ (> 0).
	Penalty float64

	// Escalation multiplies μ between rounds (> 1).
	Escalation float64

	// Rounds caps the number of penalty escalations.
	Rounds int

	// Tolerance is the residual violation accepted as feasible.
	Tolerance float64
}

// NewPenaltySolver returns a PenaltySolver with the conventional
// schedule: μ starts at 10, grows tenfold, eight rounds, 1e-6 residual.
func NewPenaltySolver() *PenaltySolver {
	return &PenaltySolver{Penalty: 10, Escalation: 10, Rounds: 8, Tolerance: 1e-6}
}

// SolveRelaxation implements Solver. The initial guess seeds the first
// round; subsequent rounds warm-start from the previous optimum.
// A point whose residual violation never drops below Tolerance is
// reported as StatusInfeasible, not as an error.
func (p *PenaltySolver) SolveRelaxation(obj core.Objective, constraints []core.Constraint, initial []float64, minimize bool) (Result, error) {
	if len(constraints) == 0 {
		return Result{}, ErrNoConstraints
	}
	if len(initial) == 0 {
		return Result{}, ErrDimensionMismatch
	}

	sign := 1.0
	if !minimize {
		sign = -1
	}

	x := append([]float64(nil), initial...)
	mu := p.Penalty

	var (
		round int
		best  []float64
	)
	for round = 0; round < p.Rounds; round++ {
		merit := func(v []float64) float64 {
			val := sign * obj(v)
			var viol float64
			for _, c := range constraints {
				if w := c.Violation(v); w > 0 {
					viol += w * w
				}
			}

			return val + mu*viol
		}

		problem := optimize.Problem{Func: merit}
		res, err := optimize.Minimize(problem, x, nil, &optimize.NelderMead{})
		if err != nil && res == nil {
			return Result{}, err
		}
		x = append(x[:0], res.X...)

		if maxViolation(constraints, x) <= p.Tolerance {
			best = append([]float64(nil), x...)
			break
		}
		mu *= p.Escalation
	}

	if best == nil {
		return Result{Status: StatusInfeasible}, nil
	}

	return Result{
		Solution:  best,
		Objective: obj(best),
		Status:    StatusOptimal,
	}, nil
}

// maxViolation returns the worst ≤-normalized constraint violation at x.
func maxViolation(constraints []core.Constraint, x []float64) float64 {
	worst := math.Inf(-1)
	for _, c := range constraints {
		if w := c.Violation(x); w > worst {
			worst = w
		}
	}

	return worst
}
