// Package bytecode - bytecode generation from the IR
package bytecode

import (
	"fmt"

	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// Generate lowers a module into a bytecode program. With stripDebug set,
// original circuit names are replaced by positional symbols and the debug
// flag is cleared.
func Generate(m *qir.Module, stripDebug bool) (*Program, error) {
	flags := FlagDebugInfo
	if stripDebug {
		flags = 0
	}

	out := &qir.Module{Name: m.Name}
	for i, fn := range m.Functions {
		name := fn.Name
		if stripDebug {
			name = fmt.Sprintf("f%d", i)
		}
		newFn := &qir.Function{
			Name:   name,
			Qubits: fn.Qubits,
			Regs:   fn.Regs,
		}
		for _, b := range fn.Blocks {
			for _, in := range b.Insts {
				if err := in.CheckWellFormed(); err != nil {
					return nil, err
				}
			}
			newFn.Blocks = append(newFn.Blocks, qir.NewBlock(b.Label, b.Insts))
		}
		out.Functions = append(out.Functions, newFn)
	}

	logger.Debug("Bytecode generation complete",
		"module", m.Name,
		"functions", len(out.Functions),
		"instructions", out.NumInstructions())
	return &Program{Version: FormatVersion, Flags: flags, Module: out}, nil
}
