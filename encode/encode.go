// Package encode unrolls an aig.Model into the per-step formulas needed for
// bounded model checking and interpolation: initial state, gate
// equivalences, transition relation, and the safety monitor, each over a
// [start, end] window of unrolling steps.
package encode

import (
	"github.com/aigmc/aigmc/aig"
	"github.com/aigmc/aigmc/formula"
)

// Encoder unrolls m.Model to the given bound.
type Encoder struct {
	Model *aig.Model
	Bound int
}

// New returns an Encoder for m unrolled to bound steps.
func New(m *aig.Model, bound int) *Encoder {
	return &Encoder{Model: m, Bound: bound}
}

// Shift returns a copy of n with every non-constant literal's label shifted
// by steps*MaxVar (sign preserved, magnitude shifted). The true/false
// constants are left untouched: they denote the same variable at every
// step.
func Shift(n *formula.Node, steps int, m *aig.Model) *formula.Node {
	c := n.Copy()
	shiftInPlace(c, steps, m)
	return c
}

func shiftInPlace(n *formula.Node, steps int, m *aig.Model) {
	stack := []*formula.Node{n}
	delta := int64(steps) * m.MaxVar
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Kind != formula.Literal {
			stack = append(stack, cur.Left, cur.Right)
			continue
		}
		if formula.IsTrue(cur, m.TrueIndex, m.FalseIndex) || formula.IsFalse(cur, m.TrueIndex, m.FalseIndex) {
			continue
		}
		if cur.Label < 0 {
			cur.Label -= delta
		} else {
			cur.Label += delta
		}
	}
}

// Equivalences returns the conjunction, over steps start..end inclusive, of
// the gate-definition equivalences out <-> (a and b) for every AND gate.
func (e *Encoder) Equivalences(start, end int) *formula.Node {
	base := formula.True(e.Model.TrueIndex)
	for _, g := range e.Model.AndGates {
		eq := formula.EqualN(g.Out.Copy(), formula.AndN(g.A.Copy(), g.B.Copy()))
		base = formula.AndN(base, eq)
	}
	all := formula.True(e.Model.TrueIndex)
	for i := start; i <= end; i++ {
		all = formula.AndN(all, Shift(base, i, e.Model))
	}
	return all
}

// Initial returns the conjunction of the negation of every latch's output
// at step 0, i.e. the all-zero initial latch valuation.
func (e *Encoder) Initial() *formula.Node {
	f := formula.True(e.Model.TrueIndex)
	for _, l := range e.Model.Latches {
		f = formula.AndN(f, l.Out.NegatedLiteralCopy())
	}
	return f
}

// transitionStep builds the base step-0-to-1 transition formula: for every
// latch, its step-1 output equals its step-0 next-state expression.
func (e *Encoder) transitionStep() *formula.Node {
	f := formula.True(e.Model.TrueIndex)
	for _, l := range e.Model.Latches {
		nextOut := Shift(l.Out, 1, e.Model)
		eq := formula.EqualN(nextOut, l.Next.Copy())
		f = formula.AndN(f, eq)
	}
	return f
}

// Transition returns the conjunction, over steps start..end inclusive, of
// the base transition formula shifted to that step.
func (e *Encoder) Transition(start, end int) *formula.Node {
	base := e.transitionStep()
	f := formula.True(e.Model.TrueIndex)
	for i := start; i <= end; i++ {
		f = formula.AndN(f, Shift(base, i, e.Model))
	}
	return f
}

// Safety returns the disjunction, over steps start..end inclusive, of the
// bad output (Outputs[0]) asserting at that step.
func (e *Encoder) Safety(start, end int) *formula.Node {
	f := formula.False(e.Model.FalseIndex)
	bad := e.Model.Outputs[0]
	for i := start; i <= end; i++ {
		f = formula.OrN(f, Shift(bad, i, e.Model))
	}
	return f
}

// BMCFormula returns Phi_BMC(bound): equivalences(0,k) and initial() and
// transition(0,k-1) and safety(0,k). It is UNSAT iff no trace of length at
// most the bound reaches the bad output from the all-zero state.
func (e *Encoder) BMCFormula() *formula.Node {
	return formula.AndN(
		e.Equivalences(0, e.Bound),
		e.Initial(),
		e.Transition(0, e.Bound-1),
		e.Safety(0, e.Bound),
	)
}
