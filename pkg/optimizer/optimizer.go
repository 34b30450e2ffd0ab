// Package optimizer - optimization pass framework
//
// Orchestrates the registered rewrite passes over every basic block of
// every function at a given optimization level. Level 0 is a strict
// identity transform.
package optimizer

import (
	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// Optimize runs the active passes over the module and returns the rewritten
// module plus statistics for this run. The input module is not mutated; at
// level 0 it is returned as-is.
func Optimize(m *qir.Module, reg *Registry, level int) (*qir.Module, *Stats, error) {
	stats := NewStats()
	if level <= 0 {
		return m, stats, nil
	}

	logger.Debug("Running optimization passes", "level", level, "module", m.Name)

	out := &qir.Module{Name: m.Name}
	for _, fn := range m.Functions {
		newFn, err := OptimizeFunction(fn, reg, level, stats)
		if err != nil {
			return nil, nil, err
		}
		out.Functions = append(out.Functions, newFn)
	}

	for name, changes := range stats.PassChanges {
		logger.LogOptimization(name, changes)
	}
	logger.Debug("Optimization complete",
		"module", m.Name,
		"gatesRemoved", stats.GatesRemoved,
		"patternsFused", stats.PatternsFused)
	return out, stats, nil
}

// OptimizeFunction runs the active passes over a single function, recording
// into the caller's stats. Used by both module optimization and the
// bytecode-level re-optimizer.
func OptimizeFunction(fn *qir.Function, reg *Registry, level int, stats *Stats) (*qir.Function, error) {
	newFn := &qir.Function{
		Name:   fn.Name,
		Qubits: fn.Qubits,
		Regs:   fn.Regs,
	}
	for _, b := range fn.Blocks {
		nb := b
		// Splicing a fused run can put its replacement adjacent to a gate
		// it now fuses with, so the pass list repeats until the block
		// stops shrinking. Every rewrite strictly shrinks the block, so
		// an unchanged length is a fixed point.
		for {
			sweepStart := nb.Len()
			for _, p := range reg.active(level) {
				before := nb.Len()
				out, err := p.Run(nb, stats)
				if err != nil {
					return nil, err
				}
				if p.Name() == FusionPassName {
					stats.recordPass(FusionPassName, before-out.Len())
				}
				nb = out
			}
			if nb.Len() == sweepStart {
				break
			}
		}
		newFn.Blocks = append(newFn.Blocks, nb)
	}
	return newFn, nil
}
