// Package driver sequences the compilation pipeline.
//
// The pipeline is strictly linear: lexical analysis, parsing, semantic
// analysis, IR generation, IR optimization, bytecode generation, bytecode
// optimization, linking. A configured stop stage halts after that stage
// with success; any stage failure halts immediately with failure. Each
// compilation unit owns its artifacts exclusively; nothing is shared
// between units.
package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/GriffinCanCode/quanta-compiler/pkg/bytecode"
	"github.com/GriffinCanCode/quanta-compiler/pkg/diag"
	"github.com/GriffinCanCode/quanta-compiler/pkg/frontend"
	"github.com/GriffinCanCode/quanta-compiler/pkg/linker"
	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
	"github.com/GriffinCanCode/quanta-compiler/pkg/optimizer"
	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// Options configures one compilation unit
type Options struct {
	Input  string
	Output string
	Entry  string

	Level     int
	StopAfter Stage

	EmitIR                bool
	EmitOptimizedIR       bool
	EmitBytecode          bool
	EmitOptimizedBytecode bool

	EnablePasses  []string
	DisablePasses []string

	StripDebug       bool
	WarningsAsErrors bool
	CacheSize        int
}

// Result is the outcome of one compilation unit
type Result struct {
	Input         string
	Artifact      string
	Stages        []StageResult
	Stats         *optimizer.Stats
	Diagnostics   diag.List
	OriginalSize  int
	OptimizedSize int
}

// Succeeded reports whether every executed stage completed
func (r *Result) Succeeded() bool {
	for _, s := range r.Stages {
		if !s.OK {
			return false
		}
	}
	return true
}

type compilation struct {
	opts   Options
	result *Result
}

// Compile runs the pipeline over one input file. The returned Result
// always carries the stage history, including the failing stage.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	c := &compilation{
		opts: opts,
		result: &Result{
			Input: opts.Input,
			Stats: optimizer.NewStats(),
		},
	}

	err := c.pipeline(ctx)
	logger.LogCompilerComplete(err == nil, time.Since(start).String())
	return c.result, err
}

func (c *compilation) pipeline(ctx context.Context) error {
	reg, err := c.configureRegistry()
	if err != nil {
		return err
	}

	// LEXICAL_ANALYSIS
	var toks []frontend.Token
	err = c.runStage(ctx, StageLexicalAnalysis, func(sr *StageResult) error {
		source, err := os.ReadFile(c.opts.Input)
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		toks = frontend.NewLexer(string(source)).Tokenize()
		var diags diag.List
		for _, tok := range toks {
			if tok.Type == frontend.ILLEGAL {
				diags = append(diags, diag.Errorf(diag.ClassSyntax, c.opts.Input,
					tok.Line, tok.Col, "illegal character %q", tok.Lexeme))
			}
		}
		return c.report(diags)
	})
	if done, err := c.checkpoint(StageLexicalAnalysis, err); done {
		return err
	}

	// PARSING
	var file *frontend.File
	err = c.runStage(ctx, StageParsing, func(sr *StageResult) error {
		var diags diag.List
		file, diags = frontend.NewParser(c.opts.Input, toks).Parse()
		return c.report(diags)
	})
	if done, err := c.checkpoint(StageParsing, err); done {
		return err
	}

	// SEMANTIC_ANALYSIS
	var checked *frontend.Checked
	err = c.runStage(ctx, StageSemanticAnalysis, func(sr *StageResult) error {
		var diags diag.List
		checked, diags = frontend.Analyze(file)
		return c.report(diags)
	})
	if done, err := c.checkpoint(StageSemanticAnalysis, err); done {
		return err
	}

	// IR_GENERATION
	var mod *qir.Module
	err = c.runStage(ctx, StageIRGeneration, func(sr *StageResult) error {
		var err error
		mod, err = checked.Lower(moduleName(c.opts.Input))
		if err != nil {
			return err
		}
		c.result.OriginalSize = mod.NumInstructions()
		if c.opts.EmitIR {
			return c.emitIR(sr, mod, ".ir")
		}
		return nil
	})
	if done, err := c.checkpoint(StageIRGeneration, err); done {
		return err
	}

	// IR_OPTIMIZATION
	err = c.runStage(ctx, StageIROptimization, func(sr *StageResult) error {
		before := mod.NumInstructions()
		optimized, stats, err := optimizer.Optimize(mod, reg, c.opts.Level)
		if err != nil {
			return err
		}
		mod = optimized
		sr.Eliminated = before - mod.NumInstructions()
		c.result.Stats.Merge(stats)
		if c.opts.EmitOptimizedIR {
			return c.emitIR(sr, mod, ".opt.ir")
		}
		return nil
	})
	if done, err := c.checkpoint(StageIROptimization, err); done {
		return err
	}

	// BYTECODE_GENERATION
	var prog *bytecode.Program
	err = c.runStage(ctx, StageBytecodeGeneration, func(sr *StageResult) error {
		var err error
		prog, err = bytecode.Generate(mod, c.opts.StripDebug)
		if err != nil {
			return err
		}
		if c.opts.EmitBytecode {
			return c.emitBytecode(sr, prog, ".qbc")
		}
		return nil
	})
	if done, err := c.checkpoint(StageBytecodeGeneration, err); done {
		return err
	}

	// BYTECODE_OPTIMIZATION: a pass-through at level 0, but the stage
	// still records a result with zero eliminated instructions.
	err = c.runStage(ctx, StageBytecodeOptimization, func(sr *StageResult) error {
		bopt, err := bytecode.NewOptimizer(reg, c.opts.Level, c.opts.CacheSize)
		if err != nil {
			return err
		}
		optimized, stats, eliminated, err := bopt.Optimize(prog)
		if err != nil {
			return err
		}
		prog = optimized
		sr.Eliminated = eliminated
		c.result.Stats.Merge(stats)
		c.result.OptimizedSize = prog.NumInstructions()
		if c.opts.EmitOptimizedBytecode {
			return c.emitBytecode(sr, prog, ".opt.qbc")
		}
		return nil
	})
	if done, err := c.checkpoint(StageBytecodeOptimization, err); done {
		return err
	}

	// LINKING
	err = c.runStage(ctx, StageLinking, func(sr *StageResult) error {
		output := c.opts.Output
		if output == "" {
			output = strings.TrimSuffix(c.opts.Input, filepath.Ext(c.opts.Input)) + ".qx"
		}
		if err := linker.New(c.opts.Entry, output).Link(prog); err != nil {
			return err
		}
		c.result.Artifact = output
		return nil
	})
	_, err = c.checkpoint(StageLinking, err)
	return err
}

// OptimizeBytecodeFile re-runs the bytecode optimizer standalone over a
// previously emitted bytecode file.
func OptimizeBytecodeFile(ctx context.Context, opts Options) (*Result, error) {
	c := &compilation{
		opts: opts,
		result: &Result{
			Input: opts.Input,
			Stats: optimizer.NewStats(),
		},
	}

	reg, err := c.configureRegistry()
	if err != nil {
		return c.result, err
	}

	var prog *bytecode.Program
	err = c.runStage(ctx, StageBytecodeOptimization, func(sr *StageResult) error {
		data, err := os.ReadFile(c.opts.Input)
		if err != nil {
			return errors.Wrap(err, "read bytecode")
		}
		prog, err = bytecode.Decode(data)
		if err != nil {
			return err
		}
		c.result.OriginalSize = prog.NumInstructions()

		bopt, err := bytecode.NewOptimizer(reg, c.opts.Level, c.opts.CacheSize)
		if err != nil {
			return err
		}
		optimized, stats, eliminated, err := bopt.Optimize(prog)
		if err != nil {
			return err
		}
		prog = optimized
		sr.Eliminated = eliminated
		c.result.Stats.Merge(stats)
		c.result.OptimizedSize = prog.NumInstructions()

		output := c.opts.Output
		if output == "" {
			output = c.opts.Input
		}
		encoded, err := bytecode.Encode(prog)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, encoded, 0644); err != nil {
			return errors.Wrap(err, "write bytecode")
		}
		c.result.Artifact = output
		return nil
	})
	return c.result, err
}

// configureRegistry builds the per-invocation pass registry and applies
// the allow/deny lists. Unknown pass names warn and are ignored; with
// warnings-as-errors they fail configuration before any stage runs.
func (c *compilation) configureRegistry() (*optimizer.Registry, error) {
	reg := optimizer.NewRegistry()

	var diags diag.List
	for _, name := range c.opts.EnablePasses {
		if err := reg.Enable(name); err != nil {
			diags = append(diags, diag.Warnf(diag.ClassConfig, "", 0, 0,
				"ignoring unknown pass %q in enable list", name))
		}
	}
	for _, name := range c.opts.DisablePasses {
		if err := reg.Disable(name); err != nil {
			diags = append(diags, diag.Warnf(diag.ClassConfig, "", 0, 0,
				"ignoring unknown pass %q in disable list", name))
		}
	}

	if err := c.report(diags); err != nil {
		return nil, err
	}
	return reg, nil
}

// runStage executes one stage body, recording its StageResult. Elapsed
// time is always recorded, success or failure.
func (c *compilation) runStage(ctx context.Context, stage Stage, body func(*StageResult) error) error {
	// No cancellation mid-stage: the context is only consulted at stage
	// boundaries.
	if err := ctx.Err(); err != nil {
		sr := StageResult{Stage: stage, OK: false}
		c.result.Stages = append(c.result.Stages, sr)
		return errors.Wrapf(err, "canceled before %s", stage)
	}

	logger.LogStage(stage.String())
	sr := StageResult{Stage: stage}
	start := time.Now()
	err := body(&sr)
	sr.Duration = time.Since(start)
	sr.OK = err == nil
	c.result.Stages = append(c.result.Stages, sr)
	logger.LogStageComplete(stage.String(), sr.Duration.String())
	return errors.Wrapf(err, "stage %s", stage)
}

// checkpoint decides whether the pipeline continues after a stage:
// a failure halts with error, a configured stop stage halts with success.
func (c *compilation) checkpoint(stage Stage, err error) (bool, error) {
	if err != nil {
		return true, err
	}
	if c.opts.StopAfter == stage {
		logger.Info("Stopping after stage", "stage", stage.String())
		return true, nil
	}
	return false, nil
}

// report records diagnostics on the result, applying warnings-as-errors,
// and returns an error when any (possibly escalated) error is present.
func (c *compilation) report(diags diag.List) error {
	diags = diags.Escalated(c.opts.WarningsAsErrors)
	c.result.Diagnostics = append(c.result.Diagnostics, diags...)
	for _, d := range diags {
		if d.Severity == diag.SeverityWarning {
			logger.Warn(d.Message, "class", d.Class.String())
		}
	}
	return diags.Err()
}

// emitIR writes a text IR dump next to the input. Emission failures are
// warnings: the in-memory pipeline continues even if a dump cannot be
// written.
func (c *compilation) emitIR(sr *StageResult, m *qir.Module, suffix string) error {
	path := artifactPath(c.opts.Input, suffix)
	f, err := os.Create(path)
	if err == nil {
		err = qir.Dump(f, m)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	return c.recordEmission(sr, path, err)
}

func (c *compilation) emitBytecode(sr *StageResult, prog *bytecode.Program, suffix string) error {
	path := artifactPath(c.opts.Input, suffix)
	encoded, err := bytecode.Encode(prog)
	if err == nil {
		err = os.WriteFile(path, encoded, 0644)
	}
	return c.recordEmission(sr, path, err)
}

func (c *compilation) recordEmission(sr *StageResult, path string, err error) error {
	if err == nil {
		sr.Artifact = path
		return nil
	}
	return c.report(diag.List{diag.Warnf(diag.ClassIO, path, 0, 0,
		"cannot write artifact: %v", err)})
}

func artifactPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func moduleName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
