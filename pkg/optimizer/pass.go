// Package optimizer - pass framework
//
// The registry is an explicit per-invocation value passed into Optimize;
// there is no process-wide pass table.
package optimizer

import (
	"github.com/pkg/errors"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// Pass rewrites one basic block, returning a replacement block. Passes are
// pure over the instruction stream; the input block is never mutated.
type Pass interface {
	Name() string
	MinLevel() int
	Run(b *qir.Block, stats *Stats) (*qir.Block, error)
}

// ErrUnknownPass is returned for enable/disable requests naming no
// registered pass. Callers report it as a configuration warning.
var ErrUnknownPass = errors.New("unknown optimization pass")

// Registry holds the pass set for a single compilation invocation
type Registry struct {
	passes   []Pass
	enabled  map[string]bool
	disabled map[string]bool
}

// NewRegistry builds a registry with the built-in passes registered
func NewRegistry() *Registry {
	r := &Registry{
		enabled:  make(map[string]bool),
		disabled: make(map[string]bool),
	}
	r.Register(&FusionPass{})
	r.Register(&DeadGatePass{})
	r.Register(&RotationCanonPass{})
	return r
}

// Register appends a pass in execution order
func (r *Registry) Register(p Pass) {
	r.passes = append(r.passes, p)
}

// PassNames returns the registered pass names in execution order
func (r *Registry) PassNames() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name()
	}
	return names
}

// Enable force-activates a pass by name regardless of its minimum level.
// An explicit Disable of the same name still wins.
func (r *Registry) Enable(name string) error {
	if !r.known(name) {
		return errors.Wrap(ErrUnknownPass, name)
	}
	r.enabled[name] = true
	return nil
}

// Disable deactivates a pass by name. Disable always wins over both the
// optimization level and an explicit Enable.
func (r *Registry) Disable(name string) error {
	if !r.known(name) {
		return errors.Wrap(ErrUnknownPass, name)
	}
	r.disabled[name] = true
	return nil
}

func (r *Registry) known(name string) bool {
	for _, p := range r.passes {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// active returns the passes that run at the given level. Level 0 runs
// nothing, unconditionally.
func (r *Registry) active(level int) []Pass {
	if level <= 0 {
		return nil
	}
	var out []Pass
	for _, p := range r.passes {
		if r.disabled[p.Name()] {
			continue
		}
		if level >= p.MinLevel() || r.enabled[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}
