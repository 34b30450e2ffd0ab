// Package qir implements the quantum intermediate representation.
//
// Design: flat gate streams, explicit operand roles, strongly typed.
// Instructions are immutable once constructed; rewrites build new values.
package qir

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/quanta-compiler/pkg/diag"
)

// Opcode is the closed instruction set
type Opcode int

const (
	OpH Opcode = iota
	OpX
	OpY
	OpZ
	OpRx
	OpRy
	OpRz
	OpCNOT
	OpSWAP
	OpMeasure
)

var opcodeNames = [...]string{
	OpH:       "H",
	OpX:       "X",
	OpY:       "Y",
	OpZ:       "Z",
	OpRx:      "Rx",
	OpRy:      "Ry",
	OpRz:      "Rz",
	OpCNOT:    "CNOT",
	OpSWAP:    "SWAP",
	OpMeasure: "MEASURE",
}

// String returns the canonical opcode token used in signatures and dumps
func (o Opcode) String() string {
	if o < 0 || int(o) >= len(opcodeNames) {
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
	return opcodeNames[o]
}

// Valid reports whether the opcode is in the closed set
func (o Opcode) Valid() bool {
	return o >= OpH && o <= OpMeasure
}

// IsQuantum reports whether the opcode is a quantum gate.
// Measurements are classical boundary instructions and never fuse.
func (o Opcode) IsQuantum() bool {
	return o >= OpH && o <= OpSWAP
}

// IsRotation reports whether the opcode is a parametric rotation
func (o Opcode) IsRotation() bool {
	return o == OpRx || o == OpRy || o == OpRz
}

// IsSelfInverse reports whether the opcode is a self-inverse single-qubit gate
func (o Opcode) IsSelfInverse() bool {
	return o == OpH || o == OpX || o == OpY || o == OpZ
}

// Arity returns the fixed operand count for the opcode
func (o Opcode) Arity() int {
	switch o {
	case OpH, OpX, OpY, OpZ:
		return 1
	case OpRx, OpRy, OpRz, OpCNOT, OpSWAP, OpMeasure:
		return 2
	default:
		return -1
	}
}

var mnemonics = map[string]Opcode{
	"h":       OpH,
	"x":       OpX,
	"y":       OpY,
	"z":       OpZ,
	"rx":      OpRx,
	"ry":      OpRy,
	"rz":      OpRz,
	"cnot":    OpCNOT,
	"swap":    OpSWAP,
	"measure": OpMeasure,
}

// FromMnemonic maps a source-level gate mnemonic to its opcode
func FromMnemonic(name string) (Opcode, bool) {
	op, ok := mnemonics[strings.ToLower(name)]
	return op, ok
}

// Operand is a typed instruction operand
type Operand interface {
	operand()
	String() string
}

// QubitRef references a qubit by index
type QubitRef struct {
	Index int
}

func (QubitRef) operand() {}

func (q QubitRef) String() string { return fmt.Sprintf("q%d", q.Index) }

// RegRef references a classical register by index
type RegRef struct {
	Index int
}

func (RegRef) operand() {}

func (r RegRef) String() string { return fmt.Sprintf("c%d", r.Index) }

// Imm is an immediate numeric operand (rotation angle)
type Imm struct {
	Value float64
}

func (Imm) operand() {}

func (i Imm) String() string { return fmt.Sprintf("%g", i.Value) }

// Instruction is a single immutable operation
type Instruction struct {
	opcode   Opcode
	operands []Operand
}

// NewInstruction constructs a validated instruction. Operand count and role
// ordering are fixed by the opcode; violations are compiler-internal errors.
func NewInstruction(op Opcode, operands ...Operand) (*Instruction, error) {
	if !op.Valid() {
		return nil, diag.Internalf("unknown opcode %d", int(op))
	}
	if len(operands) != op.Arity() {
		return nil, diag.Internalf("%s expects %d operands, got %d", op, op.Arity(), len(operands))
	}

	switch op {
	case OpH, OpX, OpY, OpZ:
		if _, ok := operands[0].(QubitRef); !ok {
			return nil, diag.Internalf("%s operand must be a qubit, got %s", op, operands[0])
		}
	case OpRx, OpRy, OpRz:
		if _, ok := operands[0].(QubitRef); !ok {
			return nil, diag.Internalf("%s first operand must be a qubit, got %s", op, operands[0])
		}
		if _, ok := operands[1].(Imm); !ok {
			return nil, diag.Internalf("%s second operand must be an immediate angle, got %s", op, operands[1])
		}
	case OpCNOT, OpSWAP:
		a, aok := operands[0].(QubitRef)
		b, bok := operands[1].(QubitRef)
		if !aok || !bok {
			return nil, diag.Internalf("%s operands must both be qubits", op)
		}
		if a.Index == b.Index {
			return nil, diag.Internalf("%s operands must address distinct qubits, got q%d twice", op, a.Index)
		}
	case OpMeasure:
		if _, ok := operands[0].(QubitRef); !ok {
			return nil, diag.Internalf("MEASURE first operand must be a qubit, got %s", operands[0])
		}
		if _, ok := operands[1].(RegRef); !ok {
			return nil, diag.Internalf("MEASURE second operand must be a register, got %s", operands[1])
		}
	}

	ops := make([]Operand, len(operands))
	copy(ops, operands)
	return &Instruction{opcode: op, operands: ops}, nil
}

// NewGate constructs a fixed single-qubit gate
func NewGate(op Opcode, qubit int) (*Instruction, error) {
	return NewInstruction(op, QubitRef{Index: qubit})
}

// NewRotation constructs a parametric rotation gate
func NewRotation(op Opcode, qubit int, angle float64) (*Instruction, error) {
	return NewInstruction(op, QubitRef{Index: qubit}, Imm{Value: angle})
}

// NewCNOT constructs a CNOT with the given control and target
func NewCNOT(control, target int) (*Instruction, error) {
	return NewInstruction(OpCNOT, QubitRef{Index: control}, QubitRef{Index: target})
}

// NewSWAP constructs a SWAP over the given qubit pair
func NewSWAP(a, b int) (*Instruction, error) {
	return NewInstruction(OpSWAP, QubitRef{Index: a}, QubitRef{Index: b})
}

// NewMeasure constructs a measurement into a classical register
func NewMeasure(qubit, reg int) (*Instruction, error) {
	return NewInstruction(OpMeasure, QubitRef{Index: qubit}, RegRef{Index: reg})
}

// MustGate is NewGate for statically valid operands (tests, builders)
func MustGate(op Opcode, qubit int) *Instruction {
	in, err := NewGate(op, qubit)
	if err != nil {
		panic(err)
	}
	return in
}

// MustRotation is NewRotation for statically valid operands
func MustRotation(op Opcode, qubit int, angle float64) *Instruction {
	in, err := NewRotation(op, qubit, angle)
	if err != nil {
		panic(err)
	}
	return in
}

// MustCNOT is NewCNOT for statically valid operands
func MustCNOT(control, target int) *Instruction {
	in, err := NewCNOT(control, target)
	if err != nil {
		panic(err)
	}
	return in
}

// Opcode returns the instruction opcode
func (in *Instruction) Opcode() Opcode {
	return in.opcode
}

// Operands returns a copy of the operand list in declared order
func (in *Instruction) Operands() []Operand {
	out := make([]Operand, len(in.operands))
	copy(out, in.operands)
	return out
}

// Qubits returns the referenced qubit indices in declared operand order
func (in *Instruction) Qubits() []int {
	var out []int
	for _, op := range in.operands {
		if q, ok := op.(QubitRef); ok {
			out = append(out, q.Index)
		}
	}
	return out
}

// Angle returns the immediate angle of a rotation gate, 0 otherwise
func (in *Instruction) Angle() float64 {
	for _, op := range in.operands {
		if imm, ok := op.(Imm); ok {
			return imm.Value
		}
	}
	return 0
}

// IsQuantum reports whether the instruction is a quantum gate
func (in *Instruction) IsQuantum() bool {
	return in.opcode.IsQuantum()
}

// TouchesQubit reports whether the instruction references the given qubit
func (in *Instruction) TouchesQubit(qubit int) bool {
	for _, q := range in.Qubits() {
		if q == qubit {
			return true
		}
	}
	return false
}

// CheckWellFormed re-validates operand arity. Decoded or hand-built
// instructions that violate it abort optimization of the enclosing module.
func (in *Instruction) CheckWellFormed() error {
	if !in.opcode.Valid() {
		return diag.Internalf("unknown opcode %d", int(in.opcode))
	}
	if len(in.operands) != in.opcode.Arity() {
		return diag.Internalf("malformed %s: %d operands, want %d",
			in.opcode, len(in.operands), in.opcode.Arity())
	}
	return nil
}

func (in *Instruction) String() string {
	parts := make([]string, len(in.operands))
	for i, op := range in.operands {
		parts[i] = op.String()
	}
	return fmt.Sprintf("%s %s", in.opcode, strings.Join(parts, ", "))
}

// Overlaps reports whether two instructions share at least one qubit.
// This is the sole legality condition for joint rewriting.
func Overlaps(a, b *Instruction) bool {
	for _, qa := range a.Qubits() {
		for _, qb := range b.Qubits() {
			if qa == qb {
				return true
			}
		}
	}
	return false
}
