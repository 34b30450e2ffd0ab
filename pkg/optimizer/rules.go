// Package optimizer - algebraic fusion rule engine
package optimizer

import (
	"math"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// angleEpsilon is the tolerance for treating a merged rotation as the
// identity (angle sum within epsilon of 0 or 2π).
const angleEpsilon = 1e-4

// fuse applies the matching algebraic rewrite to a run, returning the
// replacement instruction list. A run whose signature has no table entry,
// or whose precondition fails, is returned unchanged. The output is never
// longer than the input. Strict reductions are recorded in stats.
func fuse(run []*qir.Instruction, stats *Stats) ([]*qir.Instruction, error) {
	if len(run) < 2 {
		return run, nil
	}

	out, cat, err := rewrite(run)
	if err != nil {
		return nil, err
	}
	if len(out) < len(run) {
		stats.recordFusion(cat, len(run)-len(out))
	}
	return out, nil
}

func rewrite(run []*qir.Instruction) ([]*qir.Instruction, Category, error) {
	switch {
	case uniformSelfInverse(run):
		return cancelSelfInverse(run)
	case uniformRotation(run):
		return mergeRotations(run)
	case uniformOpcode(run, qir.OpCNOT):
		out := cancelControlPairs(run)
		return out, CategoryControl, nil
	case conjugationQubit(run, qir.OpZ) >= 0:
		in, err := qir.NewGate(qir.OpX, conjugationQubit(run, qir.OpZ))
		if err != nil {
			return nil, "", err
		}
		return []*qir.Instruction{in}, CategoryConjugation, nil
	case conjugationQubit(run, qir.OpX) >= 0:
		in, err := qir.NewGate(qir.OpZ, conjugationQubit(run, qir.OpX))
		if err != nil {
			return nil, "", err
		}
		return []*qir.Instruction{in}, CategoryConjugation, nil
	default:
		// No table entry or failed precondition: identity
		return run, "", nil
	}
}

// uniformSelfInverse reports whether the run is N>=2 copies of the same
// self-inverse single-qubit gate on the same qubit
func uniformSelfInverse(run []*qir.Instruction) bool {
	op := run[0].Opcode()
	if !op.IsSelfInverse() {
		return false
	}
	q := run[0].Qubits()[0]
	for _, in := range run {
		if in.Opcode() != op || in.Qubits()[0] != q {
			return false
		}
	}
	return true
}

// cancelSelfInverse applies run-length parity: even count cancels to
// nothing, odd count leaves a single gate
func cancelSelfInverse(run []*qir.Instruction) ([]*qir.Instruction, Category, error) {
	if len(run)%2 == 0 {
		return nil, CategoryCancellation, nil
	}
	in, err := qir.NewGate(run[0].Opcode(), run[0].Qubits()[0])
	if err != nil {
		return nil, "", err
	}
	return []*qir.Instruction{in}, CategoryCancellation, nil
}

// uniformRotation reports whether the run is N>=2 rotations of the same
// kind on the same qubit
func uniformRotation(run []*qir.Instruction) bool {
	op := run[0].Opcode()
	if !op.IsRotation() {
		return false
	}
	q := run[0].Qubits()[0]
	for _, in := range run {
		if in.Opcode() != op || in.Qubits()[0] != q {
			return false
		}
	}
	return true
}

// mergeRotations sums the immediate angles. A sum within epsilon of 0 or
// 2π cancels entirely; otherwise the raw sum is kept, not reduced mod 2π.
func mergeRotations(run []*qir.Instruction) ([]*qir.Instruction, Category, error) {
	sum := 0.0
	for _, in := range run {
		sum += in.Angle()
	}
	if math.Abs(sum) < angleEpsilon || math.Abs(sum-2*math.Pi) < angleEpsilon {
		return nil, CategoryRotation, nil
	}
	in, err := qir.NewRotation(run[0].Opcode(), run[0].Qubits()[0], sum)
	if err != nil {
		return nil, "", err
	}
	return []*qir.Instruction{in}, CategoryRotation, nil
}

func uniformOpcode(run []*qir.Instruction, op qir.Opcode) bool {
	for _, in := range run {
		if in.Opcode() != op {
			return false
		}
	}
	return true
}

// cancelControlPairs removes adjacent CNOT pairs addressing an identical
// (control, target) pair, re-applying to the remainder until no pair
// matches. Unmatched instructions stay in order, untouched.
func cancelControlPairs(run []*qir.Instruction) []*qir.Instruction {
	for k := 0; k+1 < len(run); k++ {
		if samePair(run[k], run[k+1]) {
			rest := make([]*qir.Instruction, 0, len(run)-2)
			rest = append(rest, run[:k]...)
			rest = append(rest, run[k+2:]...)
			return cancelControlPairs(rest)
		}
	}
	return run
}

// samePair reports whether two instructions address the same qubits in the
// same operand roles
func samePair(a, b *qir.Instruction) bool {
	qa, qb := a.Qubits(), b.Qubits()
	return len(qa) == 2 && len(qb) == 2 && qa[0] == qb[0] && qa[1] == qb[1]
}

// conjugationQubit returns the common qubit of an H+G+H conjugation run
// for the given inner gate, or -1 if the run is not one
func conjugationQubit(run []*qir.Instruction, inner qir.Opcode) int {
	if len(run) != 3 {
		return -1
	}
	if run[0].Opcode() != qir.OpH || run[1].Opcode() != inner || run[2].Opcode() != qir.OpH {
		return -1
	}
	q := run[0].Qubits()[0]
	if run[1].Qubits()[0] != q || run[2].Qubits()[0] != q {
		return -1
	}
	return q
}
