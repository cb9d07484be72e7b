// Package proof parses the resolution-refutation trace emitted by the
// proof-logging SAT solver and builds a proof DAG: root clauses are
// the input CNF, derived clauses have two
// parents and a pivot variable, and the DAG is rooted at the empty clause.
//
// Chains longer than a single binary resolution are unrolled into binary
// steps with freshly allocated intermediate clause indices, so every
// derivation this package records is a true binary resolution.
package proof

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aigmc/aigmc/internal/litset"
)

// Clause is a canonicalized (sorted, duplicate-free) tuple of literals. The
// empty Clause (len 0) denotes the empty clause.
type Clause []int64

// Derivation records how a non-root clause was produced: by resolving Left
// and Right on Pivot.
type Derivation struct {
	Left  Clause
	Pivot int64
	Right Clause
}

// Tree is the parsed proof DAG: every clause, root or derived, is a key;
// roots map to IsRoot true with a zero Derivation.
type Tree struct {
	clauses map[string]Clause
	derived map[string]Derivation
	isRoot  map[string]bool
	empty   Clause
}

// Empty returns the empty clause, the refutation's root.
func (t *Tree) Empty() Clause { return t.empty }

// DerivationOf returns how clause c was derived, and whether it is a
// derived (non-root) clause.
func (t *Tree) DerivationOf(c Clause) (Derivation, bool) {
	d, ok := t.derived[litset.Key(c)]
	return d, ok
}

// IsRoot reports whether c is a root (input) clause of the refutation.
func (t *Tree) IsRoot(c Clause) bool {
	return t.isRoot[litset.Key(c)]
}

// Size returns the number of distinct clauses (root and derived) recorded.
func (t *Tree) Size() int {
	return len(t.clauses)
}

// ParseError reports a malformed or inconsistent proof trace. It is
// always fatal.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "proof: " + e.Msg }

// Parse reads a proof-logging solver's stdout and returns the proof DAG.
// Output must contain the "..." sentinel described in the external
// interfaces section, as a line of its own, followed either by an ordinary trace ending
// "Final clause: <empty>" or a trivial-problem trace ending
// "Trivial problem".
func Parse(output string) (*Tree, error) {
	start, pos := -1, 0
	for _, l := range strings.SplitAfter(output, "\n") {
		pos += len(l)
		if strings.TrimSpace(l) == "..." {
			start = pos
			break
		}
	}
	if start < 0 {
		return nil, &ParseError{Msg: "missing '...' sentinel before proof trace"}
	}
	body := strings.TrimSpace(output[start:])

	var text string
	switch {
	case strings.Contains(body, "Final clause: <empty>"):
		text = strings.TrimSpace(body[:strings.Index(body, "Final clause: <empty>")])
	case strings.Contains(body, "Trivial problem"):
		trivial, err := synthesizeTrivial(body)
		if err != nil {
			return nil, err
		}
		text = trivial
	default:
		return nil, &ParseError{Msg: "trace has neither a final clause nor a trivial-problem marker"}
	}

	return parseLines(text)
}

// synthesizeTrivial handles the "Trivial problem" shape: two unit ROOT
// clauses {v} and {-v} suffice, so we synthesize a single CHAIN line
// resolving them into the empty clause, numbered using the line numbers of
// those two ROOT lines (per the external-interfaces contract).
func synthesizeTrivial(body string) (string, error) {
	trimmed := strings.TrimSpace(body[:strings.Index(body, "Trivial problem")])
	lines := strings.Split(trimmed, "\n")

	var v int64
	var posLine, negLine int64 = -1, -1
	var maxLineNo int64
	for _, raw := range lines {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		colon := strings.Index(l, ":")
		if colon < 0 {
			continue
		}
		number, err := strconv.ParseInt(strings.TrimSpace(l[:colon]), 10, 64)
		if err != nil {
			continue
		}
		if number > maxLineNo {
			maxLineNo = number
		}
		rest := strings.TrimSpace(l[colon+1:])
		if !strings.HasPrefix(rest, "ROOT") {
			continue
		}
		lit, err := strconv.ParseInt(strings.TrimSpace(rest[len("ROOT"):]), 10, 64)
		if err != nil {
			continue
		}
		if lit > 0 {
			posLine = number
			v = lit
		} else {
			negLine = number
		}
	}
	if posLine < 0 || negLine < 0 {
		return "", &ParseError{Msg: "trivial problem trace lacks the two complementary unit ROOT lines"}
	}
	chain := fmt.Sprintf("%d: CHAIN %d [%d] %d => 0", maxLineNo+1, posLine, v, negLine)
	return trimmed + "\n" + chain, nil
}

// parseLines parses "N: ROOT ..." and "N: CHAIN ... => ..." lines into a
// Tree, unrolling chains longer than one resolution step.
func parseLines(text string) (*Tree, error) {
	lines := strings.Split(text, "\n")
	runningClauseIndex := int64(len(lines))

	t := &Tree{
		clauses: make(map[string]Clause),
		derived: make(map[string]Derivation),
		isRoot:  make(map[string]bool),
	}
	byIndex := make(map[int64]Clause)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		colon := strings.Index(line, ":")
		if colon < 0 {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed proof line %q", line)}
		}
		number, err := strconv.ParseInt(strings.TrimSpace(line[:colon]), 10, 64)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed line number in %q", line)}
		}
		rest := strings.TrimSpace(line[colon+1:])

		var clause Clause
		var isRoot bool
		var der Derivation
		switch {
		case strings.HasPrefix(rest, "ROOT"):
			lits, err := parseInts(strings.TrimSpace(rest[len("ROOT"):]))
			if err != nil {
				return nil, err
			}
			clause = canon(lits)
			isRoot = true

		case strings.HasPrefix(rest, "CHAIN"):
			arrow := strings.Index(rest, "=>")
			if arrow < 0 {
				return nil, &ParseError{Msg: fmt.Sprintf("CHAIN line missing '=>': %q", line)}
			}
			concl, err := parseInts(strings.TrimSpace(rest[arrow+len("=>"):]))
			if err != nil {
				return nil, err
			}
			clause = canon(concl)

			pathTokens := strings.TrimSpace(rest[len("CHAIN"):arrow])
			pathTokens = strings.NewReplacer("[", " ", "]", " ").Replace(pathTokens)
			path, err := parseInts(pathTokens)
			if err != nil {
				return nil, err
			}
			if len(path) < 3 {
				return nil, &ParseError{Msg: fmt.Sprintf("CHAIN line too short: %q", line)}
			}

			for len(path) > 3 {
				left, ok := byIndex[path[0]]
				if !ok {
					return nil, &ParseError{Msg: fmt.Sprintf("chain references unknown clause %d", path[0])}
				}
				right, ok := byIndex[path[2]]
				if !ok {
					return nil, &ParseError{Msg: fmt.Sprintf("chain references unknown clause %d", path[2])}
				}
				pivot := path[1]
				resolvent := resolve(left, right, pivot)

				runningClauseIndex++
				idx := runningClauseIndex
				byIndex[idx] = resolvent
				key := litset.Key(resolvent)
				if _, ok := t.clauses[key]; !ok {
					t.clauses[key] = resolvent
					t.derived[key] = Derivation{Left: left, Pivot: pivot, Right: right}
				}
				path = append([]int64{idx}, path[3:]...)
			}

			left, ok := byIndex[path[0]]
			if !ok {
				return nil, &ParseError{Msg: fmt.Sprintf("chain references unknown clause %d", path[0])}
			}
			right, ok := byIndex[path[2]]
			if !ok {
				return nil, &ParseError{Msg: fmt.Sprintf("chain references unknown clause %d", path[2])}
			}
			der = Derivation{Left: left, Pivot: path[1], Right: right}

			if want := resolve(left, right, path[1]); litset.Key(want) != litset.Key(clause) {
				return nil, &ParseError{Msg: fmt.Sprintf(
					"inconsistent proof: resolvent of clause %d mismatches stored content", number)}
			}

		default:
			return nil, &ParseError{Msg: fmt.Sprintf("unrecognized proof line %q", line)}
		}

		byIndex[number] = clause
		key := litset.Key(clause)
		if _, ok := t.clauses[key]; !ok {
			t.clauses[key] = clause
			t.isRoot[key] = isRoot
			if !isRoot {
				t.derived[key] = der
			}
		}
		if len(clause) == 0 {
			t.empty = clause
		}
	}
	if _, ok := t.clauses[litset.Key(Clause{})]; !ok {
		return nil, &ParseError{Msg: "proof trace never derives the empty clause"}
	}
	return t, nil
}

func canon(lits []int64) Clause {
	if len(lits) == 1 && lits[0] == 0 {
		return Clause{}
	}
	return Clause(litset.Canon(lits))
}

// resolve returns the resolvent of left and right on pivot: the union of
// their literals with both polarities of pivot removed, sorted and
// deduplicated.
func resolve(left, right Clause, pivot int64) Clause {
	var combined []int64
	combined = append(combined, left...)
	combined = append(combined, right...)
	out := combined[:0:0]
	for _, l := range combined {
		v := l
		if v < 0 {
			v = -v
		}
		if v == pivot {
			continue
		}
		out = append(out, l)
	}
	return canon(out)
}

func parseInts(s string) ([]int64, error) {
	fields := strings.Fields(s)
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed integer %q", f)}
		}
		out = append(out, n)
	}
	return out, nil
}
