// Package driver - compilation stage machinery
package driver

import (
	"time"
)

// Stage identifies one step of the strictly linear pipeline. The zero
// value StageNone is used for "no stop stage configured".
type Stage int

const (
	StageNone Stage = iota
	StageLexicalAnalysis
	StageParsing
	StageSemanticAnalysis
	StageIRGeneration
	StageIROptimization
	StageBytecodeGeneration
	StageBytecodeOptimization
	StageLinking
)

var stageNames = map[Stage]string{
	StageLexicalAnalysis:      "lexical-analysis",
	StageParsing:              "parsing",
	StageSemanticAnalysis:     "semantic-analysis",
	StageIRGeneration:         "ir-generation",
	StageIROptimization:       "ir-optimization",
	StageBytecodeGeneration:   "bytecode-generation",
	StageBytecodeOptimization: "bytecode-optimization",
	StageLinking:              "linking",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "none"
}

// StageFromName resolves a stage by its CLI name
func StageFromName(name string) (Stage, bool) {
	for s, n := range stageNames {
		if n == name {
			return s, true
		}
	}
	return StageNone, false
}

// StageNames returns all stage names in pipeline order
func StageNames() []string {
	out := make([]string, 0, len(stageNames))
	for s := StageLexicalAnalysis; s <= StageLinking; s++ {
		out = append(out, s.String())
	}
	return out
}

// StageResult records the outcome of one stage for the current
// compilation unit
type StageResult struct {
	Stage    Stage
	OK       bool
	Duration time.Duration
	// Artifact is set only when the corresponding emission flag requested
	// a dump and it was written.
	Artifact string
	// Eliminated is the instruction count removed by an optimization
	// stage; zero for all others (and for level-0 pass-throughs).
	Eliminated int
}
