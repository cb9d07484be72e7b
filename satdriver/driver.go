package satdriver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/aigmc/aigmc/cnf"
)

// Verdict is a solver's answer to one DIMACS query.
type Verdict int

const (
	// Unknown means neither SATISFIABLE nor UNSATISFIABLE appeared in the
	// solver's output; the caller should treat this as a fatal error.
	Unknown Verdict = iota
	SAT
	UNSAT
)

func (v Verdict) String() string {
	switch v {
	case SAT:
		return "SATISFIABLE"
	case UNSAT:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one solver invocation.
type Result struct {
	Verdict Verdict
	Stdout  string
	// ProofTrace holds the raw stdout of a proof-logging invocation that
	// returned UNSAT; Parse (package proof) consumes it directly. Empty
	// for the plain profile or for a SAT verdict.
	ProofTrace string
}

// CommandRunner abstracts subprocess execution so Driver can be tested
// without a real SAT solver binary on $PATH.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) (stdout string, err error)
}

// execRunner is the default CommandRunner, backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}

// Driver writes DIMACS files and invokes the two solver profiles.
type Driver struct {
	Profile Profile
	Runner  CommandRunner
	WorkDir string
	Log     hclog.Logger
}

// New returns a Driver using the real os/exec-backed CommandRunner.
func New(profile Profile, workDir string, log hclog.Logger) *Driver {
	return &Driver{Profile: profile, Runner: execRunner{}, WorkDir: workDir, Log: log}
}

// SolvePlain writes cs to a fresh temp DIMACS file and runs the plain
// (verdict-only) solver against it.
func (d *Driver) SolvePlain(ctx context.Context, numVars int64, cs *cnf.ClauseSet) (Result, error) {
	path, cleanup, err := d.writeDIMACS(numVars, cs)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	stdout, err := d.Runner.Run(ctx, d.Profile.Plain, []string{path})
	if err != nil && !looksLikeVerdict(stdout) {
		return Result{}, fmt.Errorf("running plain solver %q: %w", d.Profile.Plain, err)
	}
	verdict, err := scanVerdict(stdout)
	if err != nil {
		d.logFailure("plain", stdout, err)
		return Result{}, err
	}
	return Result{Verdict: verdict, Stdout: stdout}, nil
}

// SolveWithProof writes cs to a fresh temp DIMACS file and runs the
// proof-logging solver against it, capturing the proof trace on UNSAT.
func (d *Driver) SolveWithProof(ctx context.Context, numVars int64, cs *cnf.ClauseSet) (Result, error) {
	path, cleanup, err := d.writeDIMACS(numVars, cs)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	stdout, err := d.Runner.Run(ctx, d.Profile.Proof, []string{"-c", path})
	if err != nil && !looksLikeVerdict(stdout) {
		return Result{}, fmt.Errorf("running proof-logging solver %q: %w", d.Profile.Proof, err)
	}
	verdict, err := scanVerdict(stdout)
	if err != nil {
		d.logFailure("proof-logging", stdout, err)
		return Result{}, err
	}
	result := Result{Verdict: verdict, Stdout: stdout}
	if verdict == UNSAT {
		result.ProofTrace = stdout
	}
	return result, nil
}

func (d *Driver) writeDIMACS(numVars int64, cs *cnf.ClauseSet) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp(d.WorkDir, "aigmc-*.cnf")
	if err != nil {
		return "", nil, fmt.Errorf("creating DIMACS temp file: %w", err)
	}
	if err := cnf.WriteDIMACS(f, numVars, cs); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("writing DIMACS file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", nil, fmt.Errorf("closing DIMACS file: %w", err)
	}
	return name, func() { os.Remove(name) }, nil
}

func (d *Driver) logFailure(profile, stdout string, err error) {
	if d.Log == nil {
		return
	}
	d.Log.Debug("solver produced no verdict", "profile", profile, "error", err, "stdout", stdout)
}

// looksLikeVerdict reports whether stdout already carries a verdict,
// meaning a non-zero exit status (common for solvers that signal
// SAT/UNSAT via exit code, e.g. 10/20) isn't itself an error.
func looksLikeVerdict(stdout string) bool {
	return strings.Contains(stdout, "SATISFIABLE")
}

// scanVerdict returns the first of UNSATISFIABLE/SATISFIABLE found in
// stdout. UNSATISFIABLE is checked first since it contains SATISFIABLE as a
// substring.
func scanVerdict(stdout string) (Verdict, error) {
	switch {
	case strings.Contains(stdout, "UNSATISFIABLE"):
		return UNSAT, nil
	case strings.Contains(stdout, "SATISFIABLE"):
		return SAT, nil
	default:
		return Unknown, fmt.Errorf("satdriver: no SATISFIABLE/UNSATISFIABLE verdict in solver output")
	}
}
