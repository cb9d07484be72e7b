// Package aig parses the ASCII And-Inverter-Graph format and builds the
// in-memory Model consumed by the unroller/encoder. See the header/body
// grammar in the project's external-interfaces notes: one header line
// "aag M I L O A", followed by I input lines, L latch lines, O output
// lines, and A and-gate lines, with optional symbol-table and comment
// sections ignored.
package aig

import "github.com/aigmc/aigmc/formula"

// LatchDef is one latch declaration: Out is the latch's output literal
// node (the current-state variable), Next is the literal computing its
// next-state value.
type LatchDef struct {
	Out  *formula.Node
	Next *formula.Node
}

// GateDef is one AND-gate declaration: Out = A and B.
type GateDef struct {
	Out *formula.Node
	A   *formula.Node
	B   *formula.Node
}

// Model is a parsed AIG circuit together with the unrolling-aware indices
// needed by the encoder and CNF builder.
//
// Inputs, Latches, Outputs, and AndGates preserve the declaration order of
// the source file: iteration order over Latches/AndGates determines the
// layout of the generated transition/equivalence formulas (the resulting
// CNF itself is order-insensitive).
type Model struct {
	MaxVar int64

	NumInputs   int
	NumLatches  int
	NumOutputs  int
	NumAndGates int

	Inputs   []*formula.Node
	Latches  []LatchDef
	Outputs  []*formula.Node
	AndGates []GateDef

	// TrueIndex and FalseIndex are the two fresh variables pinned to
	// true/false by unit clauses in the generated CNF. LabelRunningIndex
	// starts equal to TrueIndex and is incremented by the Tseitin builder
	// before each label it assigns, so labels start just above TrueIndex.
	TrueIndex         int64
	FalseIndex        int64
	LabelRunningIndex int64
}

// literalNode converts a single raw AIG literal into a formula node,
// mapping the reserved literals 0/1 to the model's false/true constants.
func literalNode(lit int64, m *Model) *formula.Node {
	switch lit {
	case 0:
		return formula.False(m.FalseIndex)
	case 1:
		return formula.True(m.TrueIndex)
	default:
		v := lit / 2
		if lit%2 != 0 {
			v = -v
		}
		return formula.NewLiteral(v)
	}
}
