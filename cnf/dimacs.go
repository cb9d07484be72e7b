package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteDIMACS emits cs in DIMACS CNF form: a header "p cnf N M" followed by
// one zero-terminated clause per line. numVars is the caller-supplied
// variable count (Model.LabelRunningIndex after the relevant Build calls),
// not necessarily cs.Vars()'s size, since DIMACS numVars is a declared
// upper bound rather than a tight count.
func WriteDIMACS(w io.Writer, numVars int64, cs *ClauseSet) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", numVars, cs.Len()); err != nil {
		return err
	}
	for _, clause := range cs.Clauses() {
		for _, lit := range clause {
			if _, err := bw.WriteString(strconv.FormatInt(lit, 10)); err != nil {
				return err
			}
			if err := bw.WriteByte(' '); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDIMACS parses r as DIMACS CNF text and returns the resulting
// ClauseSet along with the declared variable count from the "p cnf"
// header (0 if the header is absent). It exists to round-trip-check
// WriteDIMACS in tests: writing a ClauseSet and reading it back must
// reproduce the same set of clauses.
//
// A couple of non-standard variations are tolerated, matching what proof
// solvers commonly emit: comment lines ('c') may appear anywhere, not
// just in the preamble, and the problem line may be missing entirely.
func ReadDIMACS(r io.Reader) (*ClauseSet, int64, error) {
	var declaredVars, declaredClauses int64
	var sawProblemLine bool
	cs := NewClauseSet()
	var clause []int64

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if cs.Len() > 0 {
				return nil, 0, errors.New("cnf: problem line appears after clauses")
			}
			if sawProblemLine {
				return nil, 0, errors.New("cnf: multiple problem lines")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, 0, errors.Errorf("cnf: malformed problem line %q", line)
			}
			var err error
			declaredVars, err = strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return nil, 0, errors.Wrap(err, "cnf: malformed #vars in problem line")
			}
			declaredClauses, err = strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, 0, errors.Wrap(err, "cnf: malformed #clauses in problem line")
			}
			sawProblemLine = true
			continue
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "cnf: invalid literal %q", field)
			}
			if n == 0 {
				cs.Add(clause...)
				clause = nil
			} else {
				clause = append(clause, n)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	if len(clause) > 0 {
		cs.Add(clause...)
	}
	if sawProblemLine && int64(cs.Len()) != declaredClauses {
		return nil, 0, errors.Errorf("cnf: problem line declares %d clauses, but %d were read", declaredClauses, cs.Len())
	}
	return cs, declaredVars, nil
}
