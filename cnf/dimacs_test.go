package cnf

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigmc/aigmc/formula"
	"github.com/aigmc/aigmc/internal/litset"
)

func normClauses(cs *ClauseSet) [][]int64 {
	var out [][]int64
	for _, c := range cs.Clauses() {
		out = append(out, []int64(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return litset.Key(out[i]) < litset.Key(out[j])
	})
	return out
}

func TestReadDIMACSRoundTripsWriteDIMACS(t *testing.T) {
	m := newTestModel(t)
	b := NewBuilder(m)
	cs := b.Build(formula.AndN(formula.NewLiteral(1), formula.NewLiteral(2)))

	var buf bytes.Buffer
	require.NoError(t, WriteDIMACS(&buf, m.LabelRunningIndex, cs))

	got, numVars, err := ReadDIMACS(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.LabelRunningIndex, numVars)
	if diff := cmp.Diff(normClauses(cs), normClauses(got)); diff != "" {
		t.Errorf("clause sets differ after round trip (-want +got):\n%s", diff)
	}
}

func TestReadDIMACSToleratesMissingProblemLine(t *testing.T) {
	cs, numVars, err := ReadDIMACS(strings.NewReader("1 2 0\n-1 0\n"))
	require.NoError(t, err)
	assert.Zero(t, numVars)
	assert.True(t, cs.Has([]int64{1, 2}))
	assert.True(t, cs.Has([]int64{-1}))
}

func TestReadDIMACSSkipsCommentsAnywhere(t *testing.T) {
	cs, _, err := ReadDIMACS(strings.NewReader("c a comment\np cnf 2 2\n1 2 0\nc another one\n-1 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cs.Len())
}

func TestReadDIMACSRejectsClauseCountMismatch(t *testing.T) {
	_, _, err := ReadDIMACS(strings.NewReader("p cnf 2 2\n1 2 0\n"))
	assert.Error(t, err)
}

func TestReadDIMACSRejectsMalformedProblemLine(t *testing.T) {
	_, _, err := ReadDIMACS(strings.NewReader("p cnf oops 2\n"))
	assert.Error(t, err)
}
