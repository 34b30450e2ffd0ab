package qir

// Block is a basic block - a straight-line gate sequence
type Block struct {
	Label string
	Insts []*Instruction
}

// NewBlock creates a labeled block over the given instructions
func NewBlock(label string, insts []*Instruction) *Block {
	return &Block{Label: label, Insts: insts}
}

// Len returns the instruction count
func (b *Block) Len() int {
	return len(b.Insts)
}

// Function represents one compiled circuit
type Function struct {
	Name   string
	Qubits int
	Regs   int
	Blocks []*Block
}

// NumInstructions returns the total instruction count of the function
func (f *Function) NumInstructions() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Insts)
	}
	return n
}

// Module is the top-level IR container. Ownership is strictly hierarchical:
// Module owns Functions, Functions own Blocks, Blocks own Instructions.
type Module struct {
	Name      string
	Functions []*Function
}

// NumInstructions returns the total instruction count of the module
func (m *Module) NumInstructions() int {
	n := 0
	for _, f := range m.Functions {
		n += f.NumInstructions()
	}
	return n
}

// Equal reports structural equality of two modules
func (m *Module) Equal(o *Module) bool {
	if m.Name != o.Name || len(m.Functions) != len(o.Functions) {
		return false
	}
	for i, f := range m.Functions {
		g := o.Functions[i]
		if f.Name != g.Name || f.Qubits != g.Qubits || f.Regs != g.Regs ||
			len(f.Blocks) != len(g.Blocks) {
			return false
		}
		for j, b := range f.Blocks {
			c := g.Blocks[j]
			if b.Label != c.Label || len(b.Insts) != len(c.Insts) {
				return false
			}
			for k, in := range b.Insts {
				if in.String() != c.Insts[k].String() {
					return false
				}
			}
		}
	}
	return true
}
