// Package bytecode - bytecode-level re-optimization
//
// The bytecode optimizer runs the same pass framework over a decoded
// program, so a previously emitted bytecode file can be re-optimized
// standalone. Identical function bodies are looked up in an LRU cache
// keyed by body hash instead of being rewritten again.
package bytecode

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
	"github.com/GriffinCanCode/quanta-compiler/pkg/optimizer"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// DefaultCacheSize bounds the optimized-body cache
const DefaultCacheSize = 256

// cachedBody pairs an optimized body with the statistics its rewrite
// produced, so a cache hit reports the same counts as the rewrite did
type cachedBody struct {
	body  []byte
	stats *optimizer.Stats
}

// Optimizer re-optimizes bytecode programs at a fixed level and pass
// configuration. The cache is only valid for that configuration, which is
// why it lives on the optimizer value rather than in any shared state.
type Optimizer struct {
	reg   *optimizer.Registry
	level int
	cache *lru.Cache[[32]byte, cachedBody]
}

// NewOptimizer builds a bytecode optimizer for one configuration
func NewOptimizer(reg *optimizer.Registry, level int, cacheSize int) (*Optimizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, cachedBody](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create bytecode cache")
	}
	return &Optimizer{reg: reg, level: level, cache: cache}, nil
}

// Optimize rewrites the program and reports the eliminated instruction
// count. At level 0 it is a pass-through that still reports a result.
func (o *Optimizer) Optimize(p *Program) (*Program, *optimizer.Stats, int, error) {
	stats := optimizer.NewStats()
	if o.level <= 0 {
		return p, stats, 0, nil
	}

	out := &qir.Module{Name: p.Module.Name}
	eliminated := 0
	for _, fn := range p.Module.Functions {
		newFn, removed, err := o.optimizeFunction(fn, stats)
		if err != nil {
			return nil, nil, 0, err
		}
		eliminated += removed
		out.Functions = append(out.Functions, newFn)
	}

	logger.Debug("Bytecode optimization complete",
		"module", p.Module.Name,
		"eliminated", eliminated)
	return &Program{Version: p.Version, Flags: p.Flags, Module: out}, stats, eliminated, nil
}

func (o *Optimizer) optimizeFunction(fn *qir.Function, stats *optimizer.Stats) (*qir.Function, int, error) {
	body, err := EncodeBody(fn)
	if err != nil {
		return nil, 0, err
	}
	key := sha256.Sum256(body)

	if cached, ok := o.cache.Get(key); ok {
		insts, err := DecodeBody(NewReader(cached.body))
		if err != nil {
			return nil, 0, errors.Wrap(err, "decode cached body")
		}
		stats.Merge(cached.stats)
		logger.Debug("Bytecode cache hit", "function", fn.Name)
		newFn := &qir.Function{
			Name:   fn.Name,
			Qubits: fn.Qubits,
			Regs:   fn.Regs,
			Blocks: []*qir.Block{qir.NewBlock("entry", insts)},
		}
		return newFn, fn.NumInstructions() - len(insts), nil
	}

	// Rewrite into a private Stats value: the cache keeps it as the hit
	// delta and it is never written again.
	delta := optimizer.NewStats()
	newFn, err := optimizer.OptimizeFunction(fn, o.reg, o.level, delta)
	if err != nil {
		return nil, 0, err
	}
	stats.Merge(delta)

	optimized, err := EncodeBody(newFn)
	if err != nil {
		return nil, 0, err
	}
	o.cache.Add(key, cachedBody{body: optimized, stats: delta})

	return newFn, fn.NumInstructions() - newFn.NumInstructions(), nil
}
