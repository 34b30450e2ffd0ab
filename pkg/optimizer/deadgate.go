// Package optimizer - dead gate elimination pass
package optimizer

import (
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// DeadGatePassName identifies the dead gate elimination pass
const DeadGatePassName = "dead-gate-elimination"

// DeadGatePass drops quantum gates whose qubits are never measured later
// in the block. A block with no measurements is left untouched: without a
// measurement boundary every gate is potentially observable downstream.
type DeadGatePass struct{}

func (*DeadGatePass) Name() string { return DeadGatePassName }

func (*DeadGatePass) MinLevel() int { return 2 }

func (*DeadGatePass) Run(b *qir.Block, stats *Stats) (*qir.Block, error) {
	hasMeasure := false
	for _, in := range b.Insts {
		if err := in.CheckWellFormed(); err != nil {
			return nil, err
		}
		if in.Opcode() == qir.OpMeasure {
			hasMeasure = true
		}
	}
	if !hasMeasure {
		return b, nil
	}

	// lastMeasure[q] is the index of the last measurement touching qubit q
	lastMeasure := make(map[int]int)
	for i, in := range b.Insts {
		if in.Opcode() == qir.OpMeasure {
			lastMeasure[in.Qubits()[0]] = i
		}
	}

	out := make([]*qir.Instruction, 0, len(b.Insts))
	removed := 0
	for i, in := range b.Insts {
		if in.IsQuantum() && !observed(in, i, lastMeasure) {
			removed++
			continue
		}
		out = append(out, in)
	}

	stats.recordPass(DeadGatePassName, removed)
	if removed == 0 {
		return b, nil
	}
	return qir.NewBlock(b.Label, out), nil
}

// observed reports whether any qubit of the gate is measured after index i
func observed(in *qir.Instruction, i int, lastMeasure map[int]int) bool {
	for _, q := range in.Qubits() {
		if m, ok := lastMeasure[q]; ok && m > i {
			return true
		}
	}
	return false
}
