// Package frontend - Semantic analysis for the Quanta circuit language
//
// Checks declared-before-use, duplicate declarations, gate mnemonics,
// operand arity and roles. Produces a checked file that lowering can
// turn into IR without re-validating.
package frontend

import (
	"github.com/GriffinCanCode/quanta-compiler/pkg/diag"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// Checked is a semantically validated file with resolved symbol tables
type Checked struct {
	File   *File
	scopes map[*Circuit]*scope
}

type scope struct {
	qubits map[string]int
	regs   map[string]int
}

// Analyze validates the file. On any error diagnostic the returned Checked
// must not be lowered.
func Analyze(f *File) (*Checked, diag.List) {
	var diags diag.List
	checked := &Checked{File: f, scopes: make(map[*Circuit]*scope)}

	seen := make(map[string]bool)
	for _, c := range f.Circuits {
		if seen[c.Name] {
			diags = append(diags, diag.Errorf(diag.ClassSemantic, f.Path, c.Line, c.Col,
				"duplicate circuit %q", c.Name))
			continue
		}
		seen[c.Name] = true

		sc := &scope{qubits: make(map[string]int), regs: make(map[string]int)}
		checked.scopes[c] = sc
		diags = append(diags, analyzeCircuit(f.Path, c, sc)...)
	}
	return checked, diags
}

func analyzeCircuit(path string, c *Circuit, sc *scope) diag.List {
	var diags diag.List

	declare := func(names []string, table map[string]int, other map[string]int, line, col int) {
		for _, name := range names {
			if _, dup := table[name]; dup {
				diags = append(diags, diag.Errorf(diag.ClassSemantic, path, line, col,
					"duplicate declaration of %q", name))
				continue
			}
			if _, dup := other[name]; dup {
				diags = append(diags, diag.Errorf(diag.ClassSemantic, path, line, col,
					"%q already declared with a different kind", name))
				continue
			}
			table[name] = len(table)
		}
	}

	for _, stmt := range c.Stmts {
		switch s := stmt.(type) {
		case *QubitDecl:
			declare(s.Names, sc.qubits, sc.regs, s.Line, s.Col)
		case *RegDecl:
			declare(s.Names, sc.regs, sc.qubits, s.Line, s.Col)
		case *GateStmt:
			diags = append(diags, analyzeGate(path, s, sc)...)
		case *MeasureStmt:
			if _, ok := sc.qubits[s.Qubit]; !ok {
				diags = append(diags, diag.Errorf(diag.ClassSemantic, path, s.Line, s.Col,
					"undeclared qubit %q", s.Qubit))
			}
			if _, ok := sc.regs[s.Reg]; !ok {
				diags = append(diags, diag.Errorf(diag.ClassSemantic, path, s.Line, s.Col,
					"undeclared register %q", s.Reg))
			}
		}
	}
	return diags
}

func analyzeGate(path string, s *GateStmt, sc *scope) diag.List {
	var diags diag.List

	op, ok := qir.FromMnemonic(s.Mnemonic)
	if !ok || op == qir.OpMeasure {
		return diag.List{diag.Errorf(diag.ClassSemantic, path, s.Line, s.Col,
			"unknown gate %q", s.Mnemonic)}
	}

	fail := func(format string, args ...interface{}) diag.List {
		return append(diags, diag.Errorf(diag.ClassSemantic, path, s.Line, s.Col, format, args...))
	}

	qubitArg := func(i int) (string, bool) {
		a, ok := s.Args[i].(IdentArg)
		if !ok {
			return "", false
		}
		_, declared := sc.qubits[a.Name]
		if !declared {
			diags = append(diags, diag.Errorf(diag.ClassSemantic, path, a.Line, a.Col,
				"undeclared qubit %q", a.Name))
		}
		return a.Name, true
	}

	switch {
	case op.IsSelfInverse():
		if len(s.Args) != 1 {
			return fail("%s takes one qubit, got %d arguments", op, len(s.Args))
		}
		if _, ok := qubitArg(0); !ok {
			return fail("%s argument must be a qubit", op)
		}
	case op.IsRotation():
		if len(s.Args) != 2 {
			return fail("%s takes a qubit and an angle, got %d arguments", op, len(s.Args))
		}
		if _, ok := qubitArg(0); !ok {
			return fail("%s first argument must be a qubit", op)
		}
		if _, ok := s.Args[1].(NumberArg); !ok {
			return fail("%s angle must be numeric", op)
		}
	default: // CNOT, SWAP
		if len(s.Args) != 2 {
			return fail("%s takes two qubits, got %d arguments", op, len(s.Args))
		}
		a, okA := qubitArg(0)
		if !okA {
			return fail("%s first argument must be a qubit", op)
		}
		b, okB := qubitArg(1)
		if !okB {
			return fail("%s second argument must be a qubit", op)
		}
		if a == b {
			return fail("%s arguments must be distinct qubits", op)
		}
	}
	return diags
}

// Lower builds the validated IR module from a checked file
func (c *Checked) Lower(moduleName string) (*qir.Module, error) {
	m := &qir.Module{Name: moduleName}

	for _, circ := range c.File.Circuits {
		sc, ok := c.scopes[circ]
		if !ok {
			return nil, diag.Internalf("circuit %q was not analyzed", circ.Name)
		}

		var insts []*qir.Instruction
		for _, stmt := range circ.Stmts {
			switch s := stmt.(type) {
			case *GateStmt:
				in, err := lowerGate(s, sc)
				if err != nil {
					return nil, err
				}
				insts = append(insts, in)
			case *MeasureStmt:
				in, err := qir.NewMeasure(sc.qubits[s.Qubit], sc.regs[s.Reg])
				if err != nil {
					return nil, err
				}
				insts = append(insts, in)
			}
		}

		m.Functions = append(m.Functions, &qir.Function{
			Name:   circ.Name,
			Qubits: len(sc.qubits),
			Regs:   len(sc.regs),
			Blocks: []*qir.Block{qir.NewBlock("entry", insts)},
		})
	}
	return m, nil
}

func lowerGate(s *GateStmt, sc *scope) (*qir.Instruction, error) {
	op, _ := qir.FromMnemonic(s.Mnemonic)

	qubit := func(i int) int {
		return sc.qubits[s.Args[i].(IdentArg).Name]
	}

	switch {
	case op.IsSelfInverse():
		return qir.NewGate(op, qubit(0))
	case op.IsRotation():
		return qir.NewRotation(op, qubit(0), s.Args[1].(NumberArg).Value)
	default:
		return qir.NewInstruction(op,
			qir.QubitRef{Index: qubit(0)}, qir.QubitRef{Index: qubit(1)})
	}
}
