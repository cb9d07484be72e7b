package aig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// s1 is a trivially safe fixture: one input, one latch whose
// next-state is always 0, output equal to the latch, no gates.
const s1 = `aag 2 1 1 1 0
2
4 0
4
`

// s2 is "trivially unsafe": same shape, but the output is the constant 1.
const s2 = `aag 2 1 1 1 0
2
4 0
1
`

func TestParseS1(t *testing.T) {
	m, err := Parse(strings.NewReader(s1), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.MaxVar)
	assert.Equal(t, 1, m.NumInputs)
	assert.Equal(t, 1, m.NumLatches)
	assert.Equal(t, 1, m.NumOutputs)
	assert.Equal(t, 0, m.NumAndGates)

	require.Len(t, m.Inputs, 1)
	assert.EqualValues(t, 1, m.Inputs[0].Label)

	require.Len(t, m.Latches, 1)
	assert.EqualValues(t, 2, m.Latches[0].Out.Label)
	assert.EqualValues(t, m.FalseIndex, m.Latches[0].Next.Label, "literal 0 maps to the false constant")

	require.Len(t, m.Outputs, 1)
	assert.EqualValues(t, 2, m.Outputs[0].Label)

	// bound=0: false_index = maxVar*1+1 = 3, true_index = 4.
	assert.EqualValues(t, 3, m.FalseIndex)
	assert.EqualValues(t, 4, m.TrueIndex)
	assert.EqualValues(t, 4, m.LabelRunningIndex)
}

func TestParseS2OutputIsTrueConstant(t *testing.T) {
	m, err := Parse(strings.NewReader(s2), 0)
	require.NoError(t, err)
	require.Len(t, m.Outputs, 1)
	assert.EqualValues(t, m.TrueIndex, m.Outputs[0].Label)
}

func TestParseBoundAffectsIndices(t *testing.T) {
	m, err := Parse(strings.NewReader(s1), 5)
	require.NoError(t, err)
	// false_index = maxVar*(bound+1)+1 = 2*6+1 = 13; true_index = 14.
	assert.EqualValues(t, 13, m.FalseIndex)
	assert.EqualValues(t, 14, m.TrueIndex)
}

func TestParseRejectsMalformedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("not a header\n"), 0)
	assert.Error(t, err)
}

func TestParseRejectsGateOutOfRange(t *testing.T) {
	bad := `aag 1 1 0 1 1
2
4
4 2 8
`
	_, err := Parse(strings.NewReader(bad), 0)
	assert.Error(t, err)
}

func TestParseIgnoresSymbolTableAndComments(t *testing.T) {
	withExtras := s1 + "i0 button\no0 alarm\nc\nthis is a comment\n"
	m, err := Parse(strings.NewReader(withExtras), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumInputs)
}
