package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTrivialProblem exercises the S6 scenario: a two-clause instance
// {x}, {-x}. The proof-logging solver reports "Trivial problem" with no
// resolution chain at all, so Parse must synthesize one.
func TestParseTrivialProblem(t *testing.T) {
	output := "c solving...\n...\n1: ROOT 1\n2: ROOT -1\nTrivial problem\n"
	tree, err := Parse(output)
	require.NoError(t, err)

	assert.Equal(t, Clause{}, tree.Empty())
	d, ok := tree.DerivationOf(Clause{})
	require.True(t, ok)
	assert.Equal(t, Clause{1}, d.Left)
	assert.Equal(t, Clause{-1}, d.Right)
	assert.EqualValues(t, 1, d.Pivot)
	assert.True(t, tree.IsRoot(Clause{1}))
	assert.True(t, tree.IsRoot(Clause{-1}))
}

// TestParseOrdinaryRefutation exercises a simple non-trivial chain: three
// roots (one binary, two unit) resolving down to the empty clause via two binary steps,
// expressed as a single multi-antecedent CHAIN line that must be unrolled.
func TestParseOrdinaryRefutation(t *testing.T) {
	output := "c solving...\n" +
		"...\n" +
		"1: ROOT 1 2\n" +
		"2: ROOT -1\n" +
		"3: ROOT -2\n" +
		"4: CHAIN 1 [1] 2 [2] 3 => 0\n" +
		"Final clause: <empty>\n"
	tree, err := Parse(output)
	require.NoError(t, err)

	assert.Equal(t, Clause{}, tree.Empty())
	assert.True(t, tree.IsRoot(Clause{1, 2}))
	assert.True(t, tree.IsRoot(Clause{-1}))
	assert.True(t, tree.IsRoot(Clause{-2}))

	// The intermediate resolvent {2} (resolving {1,2} and {-1} on pivot 1)
	// must have been synthesized as its own derived clause.
	mid, ok := tree.DerivationOf(Clause{2})
	require.True(t, ok)
	assert.Equal(t, Clause{1, 2}, mid.Left)
	assert.Equal(t, Clause{-1}, mid.Right)
	assert.EqualValues(t, 1, mid.Pivot)

	final, ok := tree.DerivationOf(Clause{})
	require.True(t, ok)
	assert.Equal(t, Clause{2}, final.Left)
	assert.Equal(t, Clause{-2}, final.Right)
	assert.EqualValues(t, 2, final.Pivot)

	assert.Equal(t, 5, tree.Size()) // 3 roots + 1 synthesized mid + empty
}

// TestParseSingleStepChain exercises the common case of a CHAIN line with
// exactly one pivot, which requires no unrolling at all.
func TestParseSingleStepChain(t *testing.T) {
	output := "...\n1: ROOT 5\n2: ROOT -5\n3: CHAIN 1 [5] 2 => 0\nFinal clause: <empty>\n"
	tree, err := Parse(output)
	require.NoError(t, err)

	d, ok := tree.DerivationOf(Clause{})
	require.True(t, ok)
	assert.Equal(t, Clause{5}, d.Left)
	assert.Equal(t, Clause{-5}, d.Right)
	assert.EqualValues(t, 5, d.Pivot)
}

// TestParseRejectsInconsistentResolvent covers testable property 2: if the
// solver's claimed conclusion doesn't match what resolving the two
// antecedents on the stated pivot actually produces, parsing must fail
// fatally rather than silently accept a broken proof.
func TestParseRejectsInconsistentResolvent(t *testing.T) {
	output := "...\n1: ROOT 5 6\n2: ROOT -5\n3: CHAIN 1 [5] 2 => 99\nFinal clause: <empty>\n"
	_, err := Parse(output)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseRejectsMissingSentinel(t *testing.T) {
	_, err := Parse("no sentinel here\nFinal clause: <empty>\n")
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedTraceShape(t *testing.T) {
	_, err := Parse("...\n1: ROOT 1\nneither shape applies\n")
	require.Error(t, err)
}

func TestResolveDropsBothPolaritiesOfPivot(t *testing.T) {
	got := resolve(Clause{1, 2, -3}, Clause{-1, 4}, 1)
	assert.Equal(t, Clause{-3, 2, 4}, got)
}

func TestCanonTreatsUnitZeroAsEmptyClause(t *testing.T) {
	assert.Equal(t, Clause{}, canon([]int64{0}))
}
