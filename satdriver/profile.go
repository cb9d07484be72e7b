// Package satdriver invokes external SAT solver binaries: a plain
// solver (verdict only) and a
// proof-logging solver (verdict plus, on UNSAT, a resolution trace). It
// writes the DIMACS file, runs the subprocess, and scans its stdout for the
// verdict and (for the proof-logging profile) the proof trace.
package satdriver

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/hashicorp/go-multierror"
)

// Profile names the two external solver binaries this package drives.
// Both are resolved once, up front, so a run missing either reports both
// problems together rather than failing on the first one it happens to
// need.
type Profile struct {
	Plain string // argv[0] for the plain (verdict-only) solver
	Proof string // argv[0] for the proof-logging solver
}

const (
	plainEnvVar = "AIGMC_PLAIN_SOLVER"
	proofEnvVar = "AIGMC_PROOF_SOLVER"

	defaultPlain = "picosat"
	defaultProof = "picomus"
)

// ResolveProfile resolves both solver binaries: an environment override
// (AIGMC_PLAIN_SOLVER / AIGMC_PROOF_SOLVER) takes precedence, falling back
// to a PATH lookup of the default binary name. Missing binaries are
// aggregated with go-multierror so both are reported in one error.
func ResolveProfile() (Profile, error) {
	var errs *multierror.Error

	plain, err := resolveOne(plainEnvVar, defaultPlain)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	proof, err := resolveOne(proofEnvVar, defaultProof)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if errs.ErrorOrNil() != nil {
		return Profile{}, errs
	}
	return Profile{Plain: plain, Proof: proof}, nil
}

func resolveOne(envVar, defaultName string) (string, error) {
	if override := os.Getenv(envVar); override != "" {
		return override, nil
	}
	path, err := exec.LookPath(defaultName)
	if err != nil {
		return "", fmt.Errorf("resolving %s (set %s to override): %w", defaultName, envVar, err)
	}
	return path, nil
}
