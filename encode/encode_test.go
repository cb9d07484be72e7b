package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigmc/aigmc/aig"
	"github.com/aigmc/aigmc/formula"
)

// singleGate is "aag 3 2 0 1 1": two inputs, one output, one AND gate
// out = in0 and in1. Used to exercise equivalence-clause construction
// directly.
const singleGate = `aag 3 2 0 1 1
2
4
6
6 2 4
`

func mustParse(t *testing.T, text string, bound int) *aig.Model {
	t.Helper()
	m, err := aig.Parse(strings.NewReader(text), bound)
	require.NoError(t, err)
	return m
}

func TestShiftLeavesConstantsAlone(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	c := formula.True(m.TrueIndex)
	shifted := Shift(c, 2, m)
	assert.Equal(t, m.TrueIndex, shifted.Label)

	f := formula.False(m.FalseIndex)
	shiftedF := Shift(f, 2, m)
	assert.Equal(t, m.FalseIndex, shiftedF.Label)
}

// TestShiftLeavesNegatedConstantsAlone covers the syntactic negations of the
// constants (not(false) == true, not(true) == false), which arise during
// construction just as often as the positive forms and must be just as
// untouched by shifting.
func TestShiftLeavesNegatedConstantsAlone(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	notFalse := formula.NewLiteral(-m.FalseIndex)
	shifted := Shift(notFalse, 2, m)
	assert.Equal(t, -m.FalseIndex, shifted.Label)

	notTrue := formula.NewLiteral(-m.TrueIndex)
	shiftedT := Shift(notTrue, 2, m)
	assert.Equal(t, -m.TrueIndex, shiftedT.Label)
}

func TestShiftMovesVariableMagnitudePreservingSign(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	pos := formula.NewLiteral(1)
	neg := formula.NewLiteral(-1)
	assert.EqualValues(t, 1+2*m.MaxVar, Shift(pos, 2, m).Label)
	assert.EqualValues(t, -(1 + 2*m.MaxVar), Shift(neg, 2, m).Label)
}

func TestShiftDoesNotMutateInput(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	lit := formula.NewLiteral(1)
	Shift(lit, 5, m)
	assert.EqualValues(t, 1, lit.Label)
}

func TestInitialNegatesEveryLatch(t *testing.T) {
	// S1 fixture: one latch.
	const s1 = "aag 2 1 1 1 0\n2\n4 0\n4\n"
	m := mustParse(t, s1, 0)
	e := New(m, 0)
	init := e.Initial()
	// True and-ed with one negated-literal: 3 nodes (true, and, neg-lit).
	assert.Equal(t, 3, init.CountNodes())
	assert.Equal(t, formula.And, init.Kind)
	assert.EqualValues(t, -2, init.Right.Label)
}

func TestEquivalencesShiftPerStep(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	e := New(m, 3)
	eq01 := e.Equivalences(0, 1)
	eq23 := e.Equivalences(2, 3)
	// Same structural shape, different magnitude range.
	assert.Equal(t, eq01.CountNodes(), eq23.CountNodes())
}

func TestSafetyWindowOfOneStep(t *testing.T) {
	m := mustParse(t, singleGate, 3)
	e := New(m, 3)
	s := e.Safety(3, 3)
	assert.EqualValues(t, 3+3*m.MaxVar, s.Right.Label, "bad output shifted to the final step")
}

func TestBMCFormulaAssemblesAllFour(t *testing.T) {
	m := mustParse(t, singleGate, 2)
	e := New(m, 2)
	f := e.BMCFormula()
	assert.Equal(t, formula.And, f.Kind)
}
