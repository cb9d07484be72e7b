package aig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aigmc/aigmc/formula"
)

// ParseError reports a malformed AIG file. It is always fatal: there is
// no recoverable parse error.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("aig: line %d: %s", e.Line, e.Msg)
}

// Parse reads ASCII AIG text and builds a Model unrolled for bound steps.
// bound determines the two fresh constant indices and the starting point
// of LabelRunningIndex: TrueIndex and FalseIndex are allocated at
// (bound+1)*MaxVar+2 and +1 respectively, above every variable any step of
// the unrolling could use.
func Parse(r io.Reader, bound int) (*Model, error) {
	lines, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ParseError{Line: 0, Msg: "empty input"}
	}

	header, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}
	lines = lines[1:]

	m := &Model{
		MaxVar:      header.maxVar,
		NumInputs:   header.numInputs,
		NumLatches:  header.numLatches,
		NumOutputs:  header.numOutputs,
		NumAndGates: header.numAndGates,
	}
	m.LabelRunningIndex = m.MaxVar * int64(bound+1)
	m.LabelRunningIndex++
	m.FalseIndex = m.LabelRunningIndex
	m.LabelRunningIndex++
	m.TrueIndex = m.LabelRunningIndex

	need := header.numInputs + header.numLatches + header.numOutputs + header.numAndGates
	if len(lines) < need {
		return nil, &ParseError{Line: len(lines) + 1, Msg: "not enough body lines for declared header counts"}
	}

	idx := 0
	for i := 0; i < header.numInputs; i++ {
		fields, err := intFields(lines[idx], idx+2)
		if err != nil {
			return nil, err
		}
		if len(fields) != 1 {
			return nil, &ParseError{Line: idx + 2, Msg: "input line must have exactly one literal"}
		}
		m.Inputs = append(m.Inputs, literalNode(fields[0], m))
		idx++
	}
	for i := 0; i < header.numLatches; i++ {
		fields, err := intFields(lines[idx], idx+2)
		if err != nil {
			return nil, err
		}
		if len(fields) != 2 {
			return nil, &ParseError{Line: idx + 2, Msg: "latch line must have exactly two literals"}
		}
		m.Latches = append(m.Latches, LatchDef{
			Out:  literalNode(fields[0], m),
			Next: literalNode(fields[1], m),
		})
		idx++
	}
	for i := 0; i < header.numOutputs; i++ {
		fields, err := intFields(lines[idx], idx+2)
		if err != nil {
			return nil, err
		}
		if len(fields) != 1 {
			return nil, &ParseError{Line: idx + 2, Msg: "output line must have exactly one literal"}
		}
		m.Outputs = append(m.Outputs, literalNode(fields[0], m))
		idx++
	}
	for i := 0; i < header.numAndGates; i++ {
		fields, err := intFields(lines[idx], idx+2)
		if err != nil {
			return nil, err
		}
		if len(fields) != 3 {
			return nil, &ParseError{Line: idx + 2, Msg: "and-gate line must have exactly three literals"}
		}
		if fields[0]&1 != 0 {
			return nil, &ParseError{Line: idx + 2, Msg: "and-gate output literal must be positive"}
		}
		m.AndGates = append(m.AndGates, GateDef{
			Out: literalNode(fields[0], m),
			A:   literalNode(fields[1], m),
			B:   literalNode(fields[2], m),
		})
		idx++
	}

	if err := validateGateRefs(m, header.maxVar); err != nil {
		return nil, err
	}

	return m, nil
}

type header struct {
	maxVar      int64
	numInputs   int
	numLatches  int
	numOutputs  int
	numAndGates int
}

func parseHeader(line string) (header, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 || fields[0] != "aag" {
		return header{}, &ParseError{Line: 1, Msg: fmt.Sprintf("malformed header line %q", line)}
	}
	vals := make([]int64, 5)
	for i, f := range fields[1:] {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return header{}, &ParseError{Line: 1, Msg: fmt.Sprintf("malformed header field %q: %s", f, err)}
		}
		vals[i] = n
	}
	return header{
		maxVar:      vals[0],
		numInputs:   int(vals[1]),
		numLatches:  int(vals[2]),
		numOutputs:  int(vals[3]),
		numAndGates: int(vals[4]),
	}, nil
}

// readBody scans r into non-empty, non-symbol-table lines, stopping at an
// optional trailing comment section that starts with a line "c".
func readBody(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if line == "c" {
			break
		}
		if strings.HasPrefix(line, "i") || strings.HasPrefix(line, "l") || strings.HasPrefix(line, "o") {
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "aig: reading input")
	}
	return lines, nil
}

func intFields(line string, lineNo int) ([]int64, error) {
	fields := strings.Fields(line)
	out := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("malformed literal %q", f)}
		}
		out[i] = n
	}
	return out, nil
}

// validateGateRefs rejects and-gate operands that reference a variable
// beyond the header's declared maximum.
func validateGateRefs(m *Model, maxVar int64) error {
	check := func(n *formula.Node, lineHint string) error {
		v := n.Label
		if v < 0 {
			v = -v
		}
		if v == m.TrueIndex || v == m.FalseIndex {
			return nil
		}
		if v > maxVar {
			return &ParseError{Msg: fmt.Sprintf("%s references undefined variable %d (max %d)", lineHint, v, maxVar)}
		}
		return nil
	}
	for _, g := range m.AndGates {
		if err := check(g.A, "and-gate input"); err != nil {
			return err
		}
		if err := check(g.B, "and-gate input"); err != nil {
			return err
		}
	}
	return nil
}
