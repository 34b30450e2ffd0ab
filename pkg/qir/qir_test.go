package qir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeTokens(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpH, "H"},
		{OpX, "X"},
		{OpY, "Y"},
		{OpZ, "Z"},
		{OpRx, "Rx"},
		{OpRy, "Ry"},
		{OpRz, "Rz"},
		{OpCNOT, "CNOT"},
		{OpSWAP, "SWAP"},
		{OpMeasure, "MEASURE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestFromMnemonic(t *testing.T) {
	op, ok := FromMnemonic("cnot")
	require.True(t, ok)
	assert.Equal(t, OpCNOT, op)

	op, ok = FromMnemonic("Rz")
	require.True(t, ok)
	assert.Equal(t, OpRz, op)

	_, ok = FromMnemonic("toffoli")
	assert.False(t, ok)
}

func TestInstructionValidation(t *testing.T) {
	// arity
	_, err := NewInstruction(OpH)
	assert.Error(t, err)
	_, err = NewInstruction(OpH, QubitRef{Index: 0}, QubitRef{Index: 1})
	assert.Error(t, err)

	// roles
	_, err = NewInstruction(OpH, Imm{Value: 1})
	assert.Error(t, err)
	_, err = NewInstruction(OpRz, QubitRef{Index: 0}, QubitRef{Index: 1})
	assert.Error(t, err)
	_, err = NewInstruction(OpMeasure, QubitRef{Index: 0}, QubitRef{Index: 1})
	assert.Error(t, err)

	// distinct qubits on two-qubit gates
	_, err = NewCNOT(1, 1)
	assert.Error(t, err)
	_, err = NewSWAP(2, 2)
	assert.Error(t, err)

	// validation failures are reported as internal errors, not user syntax
	_, err = NewInstruction(OpH)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal compiler error")
}

func TestInstructionAccessors(t *testing.T) {
	in, err := NewRotation(OpRz, 3, 1.25)
	require.NoError(t, err)
	assert.Equal(t, OpRz, in.Opcode())
	assert.Equal(t, []int{3}, in.Qubits())
	assert.Equal(t, 1.25, in.Angle())
	assert.True(t, in.IsQuantum())
	assert.Equal(t, "Rz q3, 1.25", in.String())

	cnot, err := NewCNOT(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, cnot.Qubits(), "operand order is control, target")
	assert.True(t, cnot.TouchesQubit(2))
	assert.False(t, cnot.TouchesQubit(1))
}

func TestOverlaps(t *testing.T) {
	h0 := MustGate(OpH, 0)
	h1 := MustGate(OpH, 1)
	cnot01 := MustCNOT(0, 1)
	cnot23 := MustCNOT(2, 3)

	assert.True(t, Overlaps(h0, h0))
	assert.False(t, Overlaps(h0, h1))
	assert.True(t, Overlaps(h0, cnot01))
	assert.True(t, Overlaps(h1, cnot01))
	assert.False(t, Overlaps(h0, cnot23))
	assert.True(t, Overlaps(cnot01, MustCNOT(1, 2)))
}

func TestOperandsAreCopied(t *testing.T) {
	in := MustCNOT(0, 1)
	ops := in.Operands()
	ops[0] = QubitRef{Index: 9}
	assert.Equal(t, []int{0, 1}, in.Qubits())
}

func TestDumpVersioned(t *testing.T) {
	m := &Module{
		Name: "bell",
		Functions: []*Function{{
			Name:   "bell",
			Qubits: 2,
			Regs:   1,
			Blocks: []*Block{NewBlock("entry", []*Instruction{
				MustGate(OpH, 0),
				MustCNOT(0, 1),
			})},
		}},
	}

	var b strings.Builder
	require.NoError(t, Dump(&b, m))
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "; quanta-ir v1\n"))
	assert.Contains(t, out, "circuit bell (qubits=2, regs=1)")
	assert.Contains(t, out, "H q0")
	assert.Contains(t, out, "CNOT q0, q1")
}

func TestModuleEqual(t *testing.T) {
	mk := func(angle float64) *Module {
		return &Module{
			Name: "m",
			Functions: []*Function{{
				Name:   "f",
				Qubits: 1,
				Blocks: []*Block{NewBlock("entry", []*Instruction{
					MustRotation(OpRz, 0, angle),
				})},
			}},
		}
	}
	assert.True(t, mk(0.5).Equal(mk(0.5)))
	assert.False(t, mk(0.5).Equal(mk(0.25)))
}
