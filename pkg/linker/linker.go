// Package linker packs optimized bytecode into an executable artifact.
//
// Layout (big-endian): magic "QEX1" | version u16 | entry (u16 len + bytes)
// followed by the embedded bytecode program. Symbol resolution here is
// circuit-name resolution: names must be unique and the entry must exist.
package linker

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/GriffinCanCode/quanta-compiler/pkg/bytecode"
	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
)

// ArtifactVersion is the executable artifact format version
const ArtifactVersion uint16 = 1

var magic = [4]byte{'Q', 'E', 'X', '1'}

// Linker links a bytecode program into an executable artifact
type Linker struct {
	entry  string
	output string
}

// New creates a linker. An empty entry selects the program's single
// circuit, or "main" when several exist.
func New(entry, output string) *Linker {
	return &Linker{entry: entry, output: output}
}

// Link resolves the entry symbol and writes the executable artifact
func (l *Linker) Link(prog *bytecode.Program) error {
	entry, err := l.resolveEntry(prog)
	if err != nil {
		return err
	}

	encoded, err := bytecode.Encode(prog)
	if err != nil {
		return errors.Wrap(err, "encode program")
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], ArtifactVersion)
	buf.Write(v[:])
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(entry)))
	buf.Write(n[:])
	buf.WriteString(entry)
	buf.Write(encoded)

	if err := os.WriteFile(l.output, buf.Bytes(), 0755); err != nil {
		return errors.Wrap(err, "write executable")
	}

	logger.Info("Linking complete", "output", l.output, "entry", entry)
	return nil
}

func (l *Linker) resolveEntry(prog *bytecode.Program) (string, error) {
	seen := make(map[string]bool)
	for _, fn := range prog.Module.Functions {
		if seen[fn.Name] {
			return "", errors.Errorf("duplicate circuit symbol %q", fn.Name)
		}
		seen[fn.Name] = true
	}
	if len(seen) == 0 {
		return "", errors.New("nothing to link: program has no circuits")
	}

	entry := l.entry
	if entry == "" {
		if len(prog.Module.Functions) == 1 {
			return prog.Module.Functions[0].Name, nil
		}
		entry = "main"
	}
	if !seen[entry] {
		return "", errors.Errorf("entry circuit %q not found", entry)
	}
	return entry, nil
}
