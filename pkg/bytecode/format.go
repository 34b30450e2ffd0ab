// Package bytecode implements the self-describing Quanta bytecode format.
//
// Layout (big-endian):
//
//	magic "QBC1" | version u16 | flags u16 | function count u32
//	per function: name (u16 len + bytes) | qubits u16 | regs u16 |
//	              instruction count u32 | instructions
//	per instruction: opcode u8 | operand count u8 | operands
//	per operand: tag u8 | payload (qubit u16 / reg u16 / imm f64 bits)
//
// The header makes emitted files stable across runs and re-readable by the
// standalone optimizer.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// FormatVersion is the current bytecode format version
const FormatVersion uint16 = 1

var magic = [4]byte{'Q', 'B', 'C', '1'}

// Flags
const (
	// FlagDebugInfo marks a program whose original circuit names survive
	FlagDebugInfo uint16 = 1 << 0
)

// Operand tags
const (
	tagQubit uint8 = 0
	tagReg   uint8 = 1
	tagImm   uint8 = 2
)

// Program is a bytecode compilation unit
type Program struct {
	Version uint16
	Flags   uint16
	Module  *qir.Module
}

// NumInstructions returns the total instruction count
func (p *Program) NumInstructions() int {
	return p.Module.NumInstructions()
}

// Encode serializes the program
func Encode(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	writeU16(&buf, p.Version)
	writeU16(&buf, p.Flags)
	writeU32(&buf, uint32(len(p.Module.Functions)))

	for _, fn := range p.Module.Functions {
		if len(fn.Name) > math.MaxUint16 {
			return nil, errors.Errorf("function name too long: %d bytes", len(fn.Name))
		}
		writeU16(&buf, uint16(len(fn.Name)))
		buf.WriteString(fn.Name)
		writeU16(&buf, uint16(fn.Qubits))
		writeU16(&buf, uint16(fn.Regs))

		body, err := EncodeBody(fn)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

// EncodeBody serializes a function's flattened instruction stream,
// prefixed with its count. It doubles as the cache key material for the
// bytecode optimizer.
func EncodeBody(fn *qir.Function) ([]byte, error) {
	var buf bytes.Buffer
	writeU32(&buf, uint32(fn.NumInstructions()))
	for _, b := range fn.Blocks {
		for _, in := range b.Insts {
			if err := encodeInst(&buf, in); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

func encodeInst(buf *bytes.Buffer, in *qir.Instruction) error {
	if err := in.CheckWellFormed(); err != nil {
		return err
	}
	buf.WriteByte(uint8(in.Opcode()))
	operands := in.Operands()
	buf.WriteByte(uint8(len(operands)))
	for _, op := range operands {
		switch o := op.(type) {
		case qir.QubitRef:
			buf.WriteByte(tagQubit)
			writeU16(buf, uint16(o.Index))
		case qir.RegRef:
			buf.WriteByte(tagReg)
			writeU16(buf, uint16(o.Index))
		case qir.Imm:
			buf.WriteByte(tagImm)
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], math.Float64bits(o.Value))
			buf.Write(b[:])
		default:
			return errors.Errorf("unencodable operand %T", op)
		}
	}
	return nil
}

// Decode parses a serialized program, validating the header and every
// instruction against the closed opcode set.
func Decode(data []byte) (*Program, error) {
	r := &Reader{data: data}

	var m [4]byte
	if err := r.read(m[:]); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if m != magic {
		return nil, errors.Errorf("not a quanta bytecode file (magic %q)", m[:])
	}

	version, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "read version")
	}
	if version != FormatVersion {
		return nil, errors.Errorf("unsupported bytecode format version %d (want %d)", version, FormatVersion)
	}

	flags, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "read flags")
	}

	fnCount, err := r.u32()
	if err != nil {
		return nil, errors.Wrap(err, "read function count")
	}

	mod := &qir.Module{}
	for i := uint32(0); i < fnCount; i++ {
		fn, err := decodeFunction(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decode function %d", i)
		}
		mod.Functions = append(mod.Functions, fn)
	}

	return &Program{Version: version, Flags: flags, Module: mod}, nil
}

func decodeFunction(r *Reader) (*qir.Function, error) {
	nameLen, err := r.u16()
	if err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if err := r.read(name); err != nil {
		return nil, err
	}
	qubits, err := r.u16()
	if err != nil {
		return nil, err
	}
	regs, err := r.u16()
	if err != nil {
		return nil, err
	}

	insts, err := DecodeBody(r)
	if err != nil {
		return nil, err
	}

	return &qir.Function{
		Name:   string(name),
		Qubits: int(qubits),
		Regs:   int(regs),
		Blocks: []*qir.Block{qir.NewBlock("entry", insts)},
	}, nil
}

// DecodeBody parses a count-prefixed instruction stream
func DecodeBody(r *Reader) ([]*qir.Instruction, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	var insts []*qir.Instruction
	for i := uint32(0); i < count; i++ {
		in, err := decodeInst(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decode instruction %d", i)
		}
		insts = append(insts, in)
	}
	return insts, nil
}

func decodeInst(r *Reader) (*qir.Instruction, error) {
	opByte, err := r.u8()
	if err != nil {
		return nil, err
	}
	opCount, err := r.u8()
	if err != nil {
		return nil, err
	}

	operands := make([]qir.Operand, 0, opCount)
	for i := uint8(0); i < opCount; i++ {
		tag, err := r.u8()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagQubit:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			operands = append(operands, qir.QubitRef{Index: int(v)})
		case tagReg:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			operands = append(operands, qir.RegRef{Index: int(v)})
		case tagImm:
			var b [8]byte
			if err := r.read(b[:]); err != nil {
				return nil, err
			}
			operands = append(operands, qir.Imm{Value: math.Float64frombits(binary.BigEndian.Uint64(b[:]))})
		default:
			return nil, errors.Errorf("unknown operand tag %d", tag)
		}
	}

	return qir.NewInstruction(qir.Opcode(opByte), operands...)
}

// NewReader wraps raw bytes for body decoding
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

type Reader struct {
	data []byte
	pos  int
}

func (r *Reader) read(dst []byte) error {
	if r.pos+len(dst) > len(r.data) {
		return errors.New("truncated bytecode")
	}
	copy(dst, r.data[r.pos:])
	r.pos += len(dst)
	return nil
}

func (r *Reader) u8() (uint8, error) {
	var b [1]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) u16() (uint16, error) {
	var b [2]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *Reader) u32() (uint32, error) {
	var b [4]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
