package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/cli"

	"github.com/aigmc/aigmc/checker"
	"github.com/aigmc/aigmc/satdriver"
)

// Command implements the model checker's single entry point: four
// positional arguments, no subcommands.
type Command struct {
	Ui cli.Ui
}

func (c *Command) Help() string {
	return strings.TrimSpace(`
Usage: aigmc <input.aag> <bound> <interpolation_flag> [debug_flag]

  Checks whether the bad output of an AIG-format sequential circuit can
  assert from the all-zero initial state.

  <input.aag>           Path to an ASCII AIG file.
  <bound>               Unrolling depth. In BMC mode this is the fixed
                        bound; in interpolation mode it is the loop's
                        starting bound.
  <interpolation_flag>  0 for plain bounded model checking, 1 for
                        McMillan-style interpolation (unbounded safety).
  [debug_flag]          0 (default) or 1: emit diagnostic logging.

  Prints exactly one of OK or FAIL and exits 0. A malformed input or an
  internal error is reported on stderr and exits 1.

Environment:

  AIGMC_PLAIN_SOLVER   Override the plain solver binary (default: picosat,
                        looked up on $PATH).
  AIGMC_PROOF_SOLVER    Override the proof-logging solver binary (default:
                        picomus, looked up on $PATH).
`)
}

func (c *Command) Synopsis() string {
	return "Check AIG safety via BMC or McMillan interpolation"
}

func (c *Command) Run(args []string) int {
	cfg, err := parseArgs(args)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	profile, err := satdriver.ResolveProfile()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("resolving solver binaries: %s", err))
		return 1
	}
	cfg.PlainSolver = profile.Plain
	cfg.ProofSolver = profile.Proof
	cfg.WorkDir = os.TempDir()

	verdict, err := checker.Run(context.Background(), cfg)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	c.Ui.Output(verdict.String())
	return 0
}

func parseArgs(args []string) (checker.Config, error) {
	if len(args) < 3 || len(args) > 4 {
		return checker.Config{}, fmt.Errorf(
			"expected 3 or 4 arguments, got %d: <input.aag> <bound> <interpolation_flag> [debug_flag]", len(args))
	}
	bound, err := strconv.Atoi(args[1])
	if err != nil {
		return checker.Config{}, fmt.Errorf("malformed bound %q: %w", args[1], err)
	}
	interpolation, err := parseFlag(args[2])
	if err != nil {
		return checker.Config{}, fmt.Errorf("malformed interpolation_flag %q: %w", args[2], err)
	}
	debug := false
	if len(args) == 4 {
		debug, err = parseFlag(args[3])
		if err != nil {
			return checker.Config{}, fmt.Errorf("malformed debug_flag %q: %w", args[3], err)
		}
	}
	return checker.Config{
		AIGPath:     args[0],
		Bound:       bound,
		Interpolate: interpolation,
		Debug:       debug,
	}, nil
}

func parseFlag(s string) (bool, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}
