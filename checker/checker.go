// Package checker wires the AIG parser, CNF encoder, SAT driver, and
// interpolation engine into the BMC and interpolation
// control flow. It is the single
// package the CLI calls: Run takes the solver binaries already resolved in
// its Config, reads the AIG file once, and drives either a single bounded check or the outer/inner
// interpolation loop, returning exactly one Verdict or a fatal error.
package checker

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/aigmc/aigmc/aig"
	"github.com/aigmc/aigmc/cnf"
	"github.com/aigmc/aigmc/encode"
	"github.com/aigmc/aigmc/formula"
	"github.com/aigmc/aigmc/interpolate"
	"github.com/aigmc/aigmc/internal/logging"
	"github.com/aigmc/aigmc/proof"
	"github.com/aigmc/aigmc/satdriver"
)

// Verdict is the model checker's answer: the bad output is either
// unreachable (OK) or reachable (FAIL).
type Verdict int

const (
	FAIL Verdict = iota
	OK
)

func (v Verdict) String() string {
	if v == OK {
		return "OK"
	}
	return "FAIL"
}

// Config collects everything one Run needs: the circuit to check, the
// bound (used directly in BMC mode, as the interpolation loop's starting
// depth otherwise), the mode flags, resolved solver binaries, and a
// directory for scratch DIMACS files.
type Config struct {
	AIGPath     string
	Bound       int
	Interpolate bool
	Debug       bool
	PlainSolver string
	ProofSolver string
	WorkDir     string
}

// Run decides safety for cfg.AIGPath. A non-nil error is always fatal: it
// never accompanies a Verdict (OK/FAIL and an error never co-occur).
func Run(ctx context.Context, cfg Config) (Verdict, error) {
	data, err := os.ReadFile(cfg.AIGPath)
	if err != nil {
		return FAIL, errors.Wrapf(err, "reading AIG file %q", cfg.AIGPath)
	}
	aigText := string(data)

	log := logging.New(cfg.Debug)
	driver := satdriver.New(
		satdriver.Profile{Plain: cfg.PlainSolver, Proof: cfg.ProofSolver},
		cfg.WorkDir,
		log,
	)

	if cfg.Interpolate {
		return runInterpolation(ctx, aigText, cfg.Bound, driver, log, cfg.Debug)
	}
	return runBMC(ctx, aigText, cfg.Bound, driver)
}

func runBMC(ctx context.Context, aigText string, bound int, driver *satdriver.Driver) (Verdict, error) {
	safe, err := bmcSafe(ctx, aigText, bound, driver)
	if err != nil {
		return FAIL, err
	}
	if safe {
		return OK, nil
	}
	return FAIL, nil
}

// bmcSafe parses a fresh model at bound, encodes Phi_BMC(bound), and asks
// the plain solver whether it's UNSAT (no counterexample of length <=
// bound exists).
func bmcSafe(ctx context.Context, aigText string, bound int, driver *satdriver.Driver) (bool, error) {
	model, err := aig.Parse(strings.NewReader(aigText), bound)
	if err != nil {
		return false, errors.Wrapf(err, "parsing AIG for bound %d", bound)
	}
	enc := encode.New(model, bound)
	builder := cnf.NewBuilder(model)
	clauses := builder.Build(enc.BMCFormula())

	res, err := driver.SolvePlain(ctx, model.LabelRunningIndex, clauses)
	if err != nil {
		return false, errors.Wrap(err, "running plain solver for BMC")
	}
	return res.Verdict == satdriver.UNSAT, nil
}

// runInterpolation mirrors the original reference implementation's outer
// bound-increasing loop: at each bound, a BMC check must first pass before
// attempting to converge an interpolant; FAIL is reported the first time
// BMC itself finds a counterexample.
func runInterpolation(ctx context.Context, aigText string, startBound int, driver *satdriver.Driver, log hclog.Logger, debug bool) (Verdict, error) {
	bound := startBound
	if bound < 1 {
		bound = 1
	}
	for {
		safe, err := bmcSafe(ctx, aigText, bound, driver)
		if err != nil {
			return FAIL, err
		}
		if !safe {
			return FAIL, nil
		}

		converged, err := refineInterpolant(ctx, aigText, bound, driver, log, debug)
		if err != nil {
			return FAIL, err
		}
		if converged {
			return OK, nil
		}
		bound++
	}
}

// refineInterpolant runs the inner fixed-point loop for one bound: build
// the A/B partition, solve with the proof-logging solver, compute the next
// interpolant, and test whether it has stopped adding reachable states.
// It returns true once the interpolant has converged (the property holds
// for all depths), false if the partitioned query came back SAT (the
// caller should retry at a larger bound).
func refineInterpolant(ctx context.Context, aigText string, bound int, driver *satdriver.Driver, log hclog.Logger, debug bool) (bool, error) {
	model, err := aig.Parse(strings.NewReader(aigText), bound)
	if err != nil {
		return false, errors.Wrapf(err, "parsing AIG for bound %d", bound)
	}
	enc := encode.New(model, bound)
	builder := cnf.NewBuilder(model)

	firstEquiv := enc.Equivalences(0, 1)
	secondEquiv := enc.Equivalences(2, bound)
	firstTransition := enc.Transition(0, 0)
	secondTransition := enc.Transition(1, bound-1)
	safetyFormula := enc.Safety(bound, bound)

	initialFormula := enc.Initial()
	currentInterpolant := formula.False(model.FalseIndex)

	for {
		firstFormula := formula.AndN(firstEquiv, initialFormula, firstTransition)
		firstClauses := builder.Build(firstFormula)
		secondFormula := formula.AndN(secondEquiv, safetyFormula, secondTransition)
		secondClauses := builder.Build(secondFormula)
		union := firstClauses.Union(secondClauses)

		res, err := driver.SolveWithProof(ctx, model.LabelRunningIndex, union)
		if err != nil {
			return false, errors.Wrap(err, "running proof-logging solver")
		}
		if res.Verdict != satdriver.UNSAT {
			// The partitioned query is satisfiable: the current interpolant
			// over-approximation isn't tight enough to refute it at this
			// bound. Ask the caller to retry with a larger bound.
			return false, nil
		}

		tree, err := proof.Parse(res.ProofTrace)
		if err != nil {
			return false, errors.Wrap(err, "parsing proof trace")
		}
		nextInterpolant, err := interpolate.Interpolant(tree, firstClauses, secondClauses, model)
		if err != nil {
			return false, errors.Wrap(err, "computing interpolant")
		}

		diffFormula := formula.NotEqualN(currentInterpolant, nextInterpolant)
		diffClauses := builder.Build(diffFormula)
		diffRes, err := driver.SolvePlain(ctx, model.LabelRunningIndex, diffClauses)
		if err != nil {
			return false, errors.Wrap(err, "running convergence check")
		}

		if debug {
			log.Debug("interpolation step",
				"bound", bound,
				"proof_tree_size", tree.Size(),
				"interpolant_nodes", nextInterpolant.CountNodes(),
				"diff_nodes", diffFormula.CountNodes(),
			)
			log.Debug(pretty.Sprintf("next interpolant: %# v", nextInterpolant))
		}

		if diffRes.Verdict == satdriver.UNSAT {
			return true, nil
		}
		initialFormula = formula.OrN(initialFormula, nextInterpolant)
		currentInterpolant = nextInterpolant
	}
}
