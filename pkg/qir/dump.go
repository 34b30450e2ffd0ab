package qir

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// DumpVersion tags the text listing format so emitted artifacts stay stable
const DumpVersion = 1

// Dump writes a human-readable, versioned listing of the module
func Dump(w io.Writer, m *Module) error {
	if _, err := fmt.Fprintf(w, "; quanta-ir v%d\n; module %s\n", DumpVersion, m.Name); err != nil {
		return errors.Wrap(err, "write dump header")
	}
	for _, fn := range m.Functions {
		if _, err := fmt.Fprintf(w, "\ncircuit %s (qubits=%d, regs=%d)\n", fn.Name, fn.Qubits, fn.Regs); err != nil {
			return errors.Wrap(err, "write function header")
		}
		for _, b := range fn.Blocks {
			if _, err := fmt.Fprintf(w, "%s:\n", b.Label); err != nil {
				return errors.Wrap(err, "write block label")
			}
			for _, in := range b.Insts {
				if _, err := fmt.Fprintf(w, "  %s\n", in); err != nil {
					return errors.Wrap(err, "write instruction")
				}
			}
		}
	}
	return nil
}
