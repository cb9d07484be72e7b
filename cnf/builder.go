// Package cnf implements the Tseitin transformation: every non-leaf
// formula node is labelled with a fresh CNF
// variable, and each operator contributes a small fixed table of clauses
// defining that label in terms of its children's labels. The labelling
// scheme and clause tables here are grounded on the id-per-node /
// constraint-application split used by operator-framework's SAT resolver
// package (pkg/controller/registry/resolver/solver), adapted from
// id-per-Variable to id-per-formula-node.
package cnf

import (
	"github.com/aigmc/aigmc/aig"
	"github.com/aigmc/aigmc/formula"
)

// Builder assigns Tseitin labels and emits clauses against a single Model.
// A Builder is meant to be reused across multiple Build calls within the
// same bound: Model.LabelRunningIndex keeps advancing across calls, which
// is what lets the interpolation engine's A-side, B-side, and
// convergence-check CNFs share one consistent variable space.
type Builder struct {
	Model *aig.Model
}

// NewBuilder returns a Builder over m.
func NewBuilder(m *aig.Model) *Builder {
	return &Builder{Model: m}
}

// AddLabels assigns a fresh Model.LabelRunningIndex-derived label to every
// unlabelled non-literal node reachable from root, depth-first. A
// non-literal node that already carries a label (Label != 0) is treated as
// already processed and is not revisited or relabelled, so shared
// substructure is labelled exactly once.
func (b *Builder) AddLabels(root *formula.Node) {
	stack := []*formula.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind == formula.Literal {
			continue
		}
		if n.Label != 0 {
			continue
		}
		b.Model.LabelRunningIndex++
		n.Label = b.Model.LabelRunningIndex
		stack = append(stack, n.Left, n.Right)
	}
}

// Build labels root and returns the full clause set for it: the unit
// clauses forcing root true and pinning the true/false constants, plus the
// Tseitin definition clauses for every labelled node.
func (b *Builder) Build(root *formula.Node) *ClauseSet {
	b.AddLabels(root)
	cs := NewClauseSet()
	cs.Add(root.Label)
	cs.Add(b.Model.TrueIndex)
	cs.Add(-b.Model.FalseIndex)
	b.emit(root, cs)
	return cs
}

// emit walks the DAG iteratively, keeping formula/proof traversals
// stack-bounded rather than recursive, and adds
// the Tseitin clauses for every non-literal node, visiting each label at
// most once.
func (b *Builder) emit(root *formula.Node, cs *ClauseSet) {
	seen := make(map[int64]bool)
	stack := []*formula.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind == formula.Literal {
			continue
		}
		if seen[n.Label] {
			continue
		}
		seen[n.Label] = true

		l, a, bb := n.Label, n.Left.Label, n.Right.Label
		switch n.Kind {
		case formula.And:
			cs.Add(l, -a, -bb)
			cs.Add(-l, a)
			cs.Add(-l, bb)
		case formula.Or:
			cs.Add(-l, a, bb)
			cs.Add(l, -a)
			cs.Add(l, -bb)
		case formula.Equal:
			cs.Add(l, a, bb)
			cs.Add(-l, -a, bb)
			cs.Add(-l, a, -bb)
			cs.Add(l, -a, -bb)
		case formula.NotEqual:
			cs.Add(-l, -a, -bb)
			cs.Add(l, a, -bb)
			cs.Add(l, -a, bb)
			cs.Add(-l, a, bb)
		default:
			panic("cnf: unreachable node kind")
		}
		stack = append(stack, n.Left, n.Right)
	}
}
