// Package frontend - AST for the Quanta circuit language
package frontend

// Node is any AST node
type Node interface {
	node()
}

// File is a parsed source file
type File struct {
	Path     string
	Circuits []*Circuit
}

func (File) node() {}

// Circuit is a named circuit definition
type Circuit struct {
	Name  string
	Line  int
	Col   int
	Stmts []Stmt
}

func (Circuit) node() {}

// Stmt is a circuit-body statement
type Stmt interface {
	Node
	stmt()
}

// QubitDecl declares one or more qubits
type QubitDecl struct {
	Names []string
	Line  int
	Col   int
}

func (QubitDecl) node() {}
func (QubitDecl) stmt() {}

// RegDecl declares one or more classical registers
type RegDecl struct {
	Names []string
	Line  int
	Col   int
}

func (RegDecl) node() {}
func (RegDecl) stmt() {}

// GateStmt applies a gate to its arguments
type GateStmt struct {
	Mnemonic string
	Args     []Arg
	Line     int
	Col      int
}

func (GateStmt) node() {}
func (GateStmt) stmt() {}

// MeasureStmt measures a qubit into a classical register
type MeasureStmt struct {
	Qubit string
	Reg   string
	Line  int
	Col   int
}

func (MeasureStmt) node() {}
func (MeasureStmt) stmt() {}

// Arg is a gate argument
type Arg interface {
	Node
	arg()
}

// IdentArg names a declared qubit
type IdentArg struct {
	Name string
	Line int
	Col  int
}

func (IdentArg) node() {}
func (IdentArg) arg()  {}

// NumberArg is a numeric literal argument (rotation angle)
type NumberArg struct {
	Value float64
	Line  int
	Col   int
}

func (NumberArg) node() {}
func (NumberArg) arg()  {}
