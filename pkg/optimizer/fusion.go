// Package optimizer - quantum gate fusion pass
//
// Scans each block left to right, growing runs of adjacent qubit-overlapping
// quantum gates and splicing in the rule engine's rewrite of each run.
package optimizer

import (
	"strings"

	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// FusionPassName identifies the gate fusion pass in enable/disable lists
const FusionPassName = "quantum-gate-fusion"

// FusionPass fuses, cancels and algebraically simplifies gate runs
type FusionPass struct{}

func (*FusionPass) Name() string { return FusionPassName }

func (*FusionPass) MinLevel() int { return 1 }

func (*FusionPass) Run(b *qir.Block, stats *Stats) (*qir.Block, error) {
	out := make([]*qir.Instruction, 0, len(b.Insts))
	i := 0

	for i < len(b.Insts) {
		if err := b.Insts[i].CheckWellFormed(); err != nil {
			return nil, err
		}

		run := identifySequence(b, i)
		if len(run) == 1 {
			out = append(out, run[0])
			i++
			continue
		}

		replacement, err := fuse(run, stats)
		if err != nil {
			return nil, err
		}
		if len(replacement) < len(run) {
			logger.Debug("Fused gate run",
				"block", b.Label,
				"signature", signature(run),
				"before", len(run),
				"after", len(replacement))
		}
		out = append(out, replacement...)
		i += len(run)
	}

	return qir.NewBlock(b.Label, out), nil
}

// fusiblePatterns is the closed signature table. Lookup both bounds run
// growth and selects the rewrite rule.
var fusiblePatterns = map[string]bool{
	"H+H":       true,
	"X+X":       true,
	"Y+Y":       true,
	"Z+Z":       true,
	"Rx+Rx":     true,
	"Ry+Ry":     true,
	"Rz+Rz":     true,
	"CNOT+CNOT": true,
	"H+Z+H":     true,
	"H+X+H":     true,
}

// identifySequence grows a run starting at index i. The run extends while
// the next instruction is a quantum gate whose qubit set overlaps the run's
// last instruction, and stops early as soon as the accumulated signature
// matches a known fusible pattern. Non-quantum starts yield a singleton.
func identifySequence(b *qir.Block, i int) []*qir.Instruction {
	first := b.Insts[i]
	if !first.IsQuantum() {
		return []*qir.Instruction{first}
	}

	run := []*qir.Instruction{first}
	for j := i + 1; j < len(b.Insts); j++ {
		next := b.Insts[j]
		if !next.IsQuantum() || !qir.Overlaps(run[len(run)-1], next) {
			break
		}
		run = append(run, next)
		if fusiblePatterns[signature(run)] {
			break
		}
	}
	return run
}

// signature concatenates canonical opcode tokens joined by '+', in block
// order. Parameters are excluded.
func signature(run []*qir.Instruction) string {
	parts := make([]string, len(run))
	for i, in := range run {
		parts[i] = in.Opcode().String()
	}
	return strings.Join(parts, "+")
}
