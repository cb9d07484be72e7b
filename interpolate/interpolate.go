// Package interpolate computes a McMillan-style Craig interpolant from a
// resolution refutation of an A-side and a B-side CNF, using McMillan's
// labelling algorithm: a root clause wholly inside A labels
// itself with its projection onto the shared variables; a root clause in B
// labels itself true; a derived clause combines its antecedents' labels with
// Or when its resolution pivot is local to A, and with And otherwise. Both
// combinations short-circuit on the true/false constants (Or is true if
// either side is, And is false if either side is; otherwise the non-constant
// side passes through unchanged) rather than building a literal Or/And node
// around them, which is what keeps the interpolant from growing a dead
// True/False subtree at every derived clause. The label of the empty clause
// is the raw interpolant.
//
// In the unrolling this engine is built for, the shared variables are the
// latch outputs at the single step where A (the one-step transition from
// the initial state) meets B (the remaining transition and the safety
// check), so the raw interpolant talks about step-1 variables; Interpolant
// shifts it back by one step so it can be used as a step-0 formula, the
// form the outer loop's running "initial" approximation needs.
package interpolate

import (
	"fmt"

	"github.com/aigmc/aigmc/aig"
	"github.com/aigmc/aigmc/cnf"
	"github.com/aigmc/aigmc/encode"
	"github.com/aigmc/aigmc/formula"
	"github.com/aigmc/aigmc/internal/litset"
	"github.com/aigmc/aigmc/proof"
)

// Interpolant computes the interpolant for a refutation of
// aClauses ∧ bClauses recorded in tree, and shifts it back one unrolling
// step using m's variable layout.
func Interpolant(tree *proof.Tree, aClauses, bClauses *cnf.ClauseSet, m *aig.Model) (*formula.Node, error) {
	aVars := aClauses.Vars()
	bVars := bClauses.Vars()
	shared := make(map[int64]bool, len(aVars))
	for v := range aVars {
		if bVars[v] {
			shared[v] = true
		}
	}

	order := postOrder(tree)
	labels := make(map[string]*formula.Node, len(order))

	for _, c := range order {
		key := litset.Key(c)
		if tree.IsRoot(c) {
			labels[key] = rootLabel(c, aClauses, shared, m)
			continue
		}
		d, ok := tree.DerivationOf(c)
		if !ok {
			return nil, fmt.Errorf("interpolate: clause %v is neither a root nor a derivation", []int64(c))
		}
		left, lok := labels[litset.Key(d.Left)]
		right, rok := labels[litset.Key(d.Right)]
		if !lok || !rok {
			return nil, fmt.Errorf("interpolate: clause %v derived before its antecedents were labelled", []int64(c))
		}
		pivotVar := d.Pivot
		if pivotVar < 0 {
			pivotVar = -pivotVar
		}
		if aVars[pivotVar] && !shared[pivotVar] {
			labels[key] = combineOr(left, right, m)
		} else {
			labels[key] = combineAnd(left, right, m)
		}
	}

	final, ok := labels[litset.Key(tree.Empty())]
	if !ok {
		return nil, fmt.Errorf("interpolate: refutation never labelled the empty clause")
	}
	return encode.Shift(final, -1, m), nil
}

// combineOr is formula.OrN(left, right), short-circuited: if either side is
// the true constant the combination is true; if one side is the false
// constant the combination is just the other side. Without this,
// interpolants accumulate dead True/False subtrees at every derived clause
// and blow up quadratically in the size of the refutation.
func combineOr(left, right *formula.Node, m *aig.Model) *formula.Node {
	if formula.IsTrue(left, m.TrueIndex, m.FalseIndex) || formula.IsTrue(right, m.TrueIndex, m.FalseIndex) {
		return formula.True(m.TrueIndex)
	}
	if formula.IsFalse(left, m.TrueIndex, m.FalseIndex) {
		return right
	}
	if formula.IsFalse(right, m.TrueIndex, m.FalseIndex) {
		return left
	}
	return formula.OrN(left, right)
}

// combineAnd is formula.AndN(left, right), short-circuited dually to
// combineOr: false dominates, true defers to the other side.
func combineAnd(left, right *formula.Node, m *aig.Model) *formula.Node {
	if formula.IsFalse(left, m.TrueIndex, m.FalseIndex) || formula.IsFalse(right, m.TrueIndex, m.FalseIndex) {
		return formula.False(m.FalseIndex)
	}
	if formula.IsTrue(left, m.TrueIndex, m.FalseIndex) {
		return right
	}
	if formula.IsTrue(right, m.TrueIndex, m.FalseIndex) {
		return left
	}
	return formula.AndN(left, right)
}

// rootLabel labels a root clause: its projection onto the shared variables
// if it came from aClauses, or the true constant if it came from bClauses.
func rootLabel(c proof.Clause, aClauses *cnf.ClauseSet, shared map[int64]bool, m *aig.Model) *formula.Node {
	if !aClauses.Has([]int64(c)) {
		return formula.True(m.TrueIndex)
	}
	var projected []*formula.Node
	for _, l := range c {
		v := l
		if v < 0 {
			v = -v
		}
		if shared[v] {
			projected = append(projected, formula.NewLiteral(l))
		}
	}
	if len(projected) == 0 {
		return formula.False(m.FalseIndex)
	}
	return formula.OrN(projected...)
}

// postOrder returns every clause reachable from the empty clause, each
// preceded by its antecedents (if any), so labels can be computed in one
// forward pass. Traversal is iterative: the refutation DAG can be deep
// enough that recursion would be unsafe.
func postOrder(tree *proof.Tree) []proof.Clause {
	type frame struct {
		c        proof.Clause
		expanded bool
	}
	var order []proof.Clause
	seen := make(map[string]bool)
	stack := []frame{{c: tree.Empty()}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		key := litset.Key(f.c)
		if seen[key] {
			stack = stack[:len(stack)-1]
			continue
		}
		if tree.IsRoot(f.c) {
			seen[key] = true
			order = append(order, f.c)
			stack = stack[:len(stack)-1]
			continue
		}
		d, ok := tree.DerivationOf(f.c)
		if !ok {
			// Unreachable for a Tree produced by proof.Parse: every clause is
			// either a root or has a recorded derivation.
			stack = stack[:len(stack)-1]
			continue
		}
		if !f.expanded {
			f.expanded = true
			stack = append(stack, frame{c: d.Left}, frame{c: d.Right})
			continue
		}
		seen[key] = true
		order = append(order, f.c)
		stack = stack[:len(stack)-1]
	}
	return order
}
