package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

func block(insts ...*qir.Instruction) *qir.Block {
	return qir.NewBlock("entry", insts)
}

func moduleOf(insts ...*qir.Instruction) *qir.Module {
	return &qir.Module{
		Name: "test",
		Functions: []*qir.Function{{
			Name:   "main",
			Qubits: 4,
			Regs:   4,
			Blocks: []*qir.Block{block(insts...)},
		}},
	}
}

func runFusion(t *testing.T, insts ...*qir.Instruction) ([]*qir.Instruction, *Stats) {
	t.Helper()
	stats := NewStats()
	out, err := (&FusionPass{}).Run(block(insts...), stats)
	require.NoError(t, err)
	return out.Insts, stats
}

func TestSelfInverseCancellation(t *testing.T) {
	out, stats := runFusion(t, qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 0))
	assert.Empty(t, out)
	assert.Equal(t, uint64(2), stats.GatesRemoved)
	assert.Equal(t, uint64(1), stats.PatternsFused)
	assert.Equal(t, uint64(1), stats.ByCategory[CategoryCancellation])
}

func TestSelfInverseOddCount(t *testing.T) {
	out, _ := runFusion(t,
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0))
	require.Len(t, out, 1)
	assert.Equal(t, qir.OpX, out[0].Opcode())
	assert.Equal(t, []int{0}, out[0].Qubits())
}

func TestSelfInverseParityDirect(t *testing.T) {
	// fuse handles arbitrary-length uniform runs by parity
	even := []*qir.Instruction{
		qir.MustGate(qir.OpZ, 1), qir.MustGate(qir.OpZ, 1),
		qir.MustGate(qir.OpZ, 1), qir.MustGate(qir.OpZ, 1),
	}
	out, err := fuse(even, NewStats())
	require.NoError(t, err)
	assert.Empty(t, out)

	odd := even[:3]
	out, err = fuse(odd, NewStats())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, qir.OpZ, out[0].Opcode())
}

func TestRotationAdditivity(t *testing.T) {
	out, stats := runFusion(t,
		qir.MustRotation(qir.OpRz, 0, 0.3),
		qir.MustRotation(qir.OpRz, 0, 0.4))
	require.Len(t, out, 1)
	assert.Equal(t, qir.OpRz, out[0].Opcode())
	assert.InDelta(t, 0.7, out[0].Angle(), 1e-9)
	assert.Equal(t, uint64(1), stats.ByCategory[CategoryRotation])
}

func TestRotationSelfCancellation(t *testing.T) {
	out, _ := runFusion(t,
		qir.MustRotation(qir.OpRz, 0, 1.0),
		qir.MustRotation(qir.OpRz, 0, -1.0))
	assert.Empty(t, out)
}

func TestRotationFullTurnCancellation(t *testing.T) {
	out, _ := runFusion(t,
		qir.MustRotation(qir.OpRx, 2, math.Pi),
		qir.MustRotation(qir.OpRx, 2, math.Pi))
	assert.Empty(t, out)
}

func TestRotationSumNotReducedModulo(t *testing.T) {
	// 3π stays 3π; only the exact zero/2π window cancels
	out, _ := runFusion(t,
		qir.MustRotation(qir.OpRy, 0, 2*math.Pi),
		qir.MustRotation(qir.OpRy, 0, math.Pi))
	require.Len(t, out, 1)
	assert.InDelta(t, 3*math.Pi, out[0].Angle(), 1e-9)
}

func TestConjugationIdentities(t *testing.T) {
	out, stats := runFusion(t,
		qir.MustGate(qir.OpH, 0),
		qir.MustGate(qir.OpZ, 0),
		qir.MustGate(qir.OpH, 0))
	require.Len(t, out, 1)
	assert.Equal(t, qir.OpX, out[0].Opcode())
	assert.Equal(t, uint64(1), stats.ByCategory[CategoryConjugation])

	out, _ = runFusion(t,
		qir.MustGate(qir.OpH, 1),
		qir.MustGate(qir.OpX, 1),
		qir.MustGate(qir.OpH, 1))
	require.Len(t, out, 1)
	assert.Equal(t, qir.OpZ, out[0].Opcode())
	assert.Equal(t, []int{1}, out[0].Qubits())
}

func TestConjugationRequiresSameQubit(t *testing.T) {
	// H(q0) Z(q0) H(q0) fuses, but the middle gate on another qubit
	// breaks the run via the overlap gate
	out, stats := runFusion(t,
		qir.MustGate(qir.OpH, 0),
		qir.MustGate(qir.OpZ, 1),
		qir.MustGate(qir.OpH, 0))
	assert.Len(t, out, 3)
	assert.Zero(t, stats.PatternsFused)
}

func TestControlPairCancellation(t *testing.T) {
	out, stats := runFusion(t, qir.MustCNOT(0, 1), qir.MustCNOT(0, 1))
	assert.Empty(t, out)
	assert.Equal(t, uint64(1), stats.ByCategory[CategoryControl])
}

func TestControlPairMismatchKept(t *testing.T) {
	// Overlapping CNOTs on different (control, target) pairs match the
	// signature but fail the precondition
	out, stats := runFusion(t, qir.MustCNOT(0, 1), qir.MustCNOT(1, 2))
	assert.Len(t, out, 2)
	assert.Zero(t, stats.PatternsFused)

	// Swapped roles are a different pair too
	out, _ = runFusion(t, qir.MustCNOT(0, 1), qir.MustCNOT(1, 0))
	assert.Len(t, out, 2)
}

func TestControlPairRecursiveCancellation(t *testing.T) {
	run := []*qir.Instruction{
		qir.MustCNOT(0, 1),
		qir.MustCNOT(0, 1),
		qir.MustCNOT(0, 1),
		qir.MustCNOT(0, 1),
	}
	out, err := fuse(run, NewStats())
	require.NoError(t, err)
	assert.Empty(t, out)

	// Unmatched middle instruction survives in order
	mixed := []*qir.Instruction{
		qir.MustCNOT(0, 1),
		qir.MustCNOT(0, 1),
		qir.MustCNOT(1, 2),
	}
	out, err = fuse(mixed, NewStats())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []int{1, 2}, out[0].Qubits())
}

func TestNonOverlapIsHardBoundary(t *testing.T) {
	// Same opcode, disjoint qubits: never a fusible run
	out, stats := runFusion(t, qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 1))
	assert.Len(t, out, 2)
	assert.Zero(t, stats.GatesRemoved)
	assert.Zero(t, stats.PatternsFused)
}

func TestMeasureBreaksRuns(t *testing.T) {
	m, err := qir.NewMeasure(0, 0)
	require.NoError(t, err)
	out, stats := runFusion(t, qir.MustGate(qir.OpH, 0), m, qir.MustGate(qir.OpH, 0))
	assert.Len(t, out, 3)
	assert.Zero(t, stats.PatternsFused)
}

func TestAdjacentRunsBothFuse(t *testing.T) {
	out, stats := runFusion(t,
		qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 0),
		qir.MustGate(qir.OpZ, 1), qir.MustGate(qir.OpZ, 1))
	assert.Empty(t, out)
	assert.Equal(t, uint64(4), stats.GatesRemoved)
	assert.Equal(t, uint64(2), stats.PatternsFused)
}

func TestLevelZeroIdentity(t *testing.T) {
	m := moduleOf(qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 0))
	out, stats, err := Optimize(m, NewRegistry(), 0)
	require.NoError(t, err)
	assert.Same(t, m, out)
	assert.Zero(t, stats.GatesRemoved)
}

func TestIdempotence(t *testing.T) {
	m := moduleOf(
		qir.MustGate(qir.OpH, 0),
		qir.MustGate(qir.OpH, 0),
		qir.MustRotation(qir.OpRz, 1, 0.3),
		qir.MustRotation(qir.OpRz, 1, 0.4),
		qir.MustGate(qir.OpH, 2),
		qir.MustGate(qir.OpX, 2),
		qir.MustGate(qir.OpH, 2),
		qir.MustCNOT(0, 1),
	)
	reg := NewRegistry()
	once, _, err := Optimize(m, reg, 3)
	require.NoError(t, err)
	twice, stats, err := Optimize(once, reg, 3)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice), "optimize must be a fixed point")
	assert.Zero(t, stats.GatesRemoved)
}

func TestChainedRotationsConvergeInOneCall(t *testing.T) {
	// The first scan merges the leading pair and copies the third
	// rotation untouched; the sweep loop must keep rescanning until
	// the whole chain collapses.
	m := moduleOf(
		qir.MustRotation(qir.OpRz, 0, 0.1),
		qir.MustRotation(qir.OpRz, 0, 0.2),
		qir.MustRotation(qir.OpRz, 0, 0.3),
	)
	reg := NewRegistry()

	once, stats, err := Optimize(m, reg, 1)
	require.NoError(t, err)
	require.Equal(t, 1, once.NumInstructions())
	in := once.Functions[0].Blocks[0].Insts[0]
	assert.Equal(t, qir.OpRz, in.Opcode())
	assert.InDelta(t, 0.6, in.Angle(), 1e-9)
	assert.Equal(t, uint64(2), stats.GatesRemoved)

	twice, stats, err := Optimize(once, reg, 1)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice), "optimize must be a fixed point")
	assert.Zero(t, stats.GatesRemoved)
}

func TestChainedSelfInverseConvergeInOneCall(t *testing.T) {
	// Five X gates: pair cancellations cascade across sweeps down to one
	m := moduleOf(
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0),
		qir.MustGate(qir.OpX, 0),
	)
	once, stats, err := Optimize(m, NewRegistry(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, once.NumInstructions())
	assert.Equal(t, uint64(4), stats.GatesRemoved)

	twice, _, err := Optimize(once, NewRegistry(), 1)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
}

func TestDisableWinsOverLevel(t *testing.T) {
	m := moduleOf(qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 0))
	reg := NewRegistry()
	require.NoError(t, reg.Disable(FusionPassName))

	out, stats, err := Optimize(m, reg, 3)
	require.NoError(t, err)
	assert.Zero(t, stats.PatternsFused)
	assert.Equal(t, 2, out.NumInstructions())
}

func TestEnableBelowMinLevel(t *testing.T) {
	m := moduleOf(qir.MustRotation(qir.OpRz, 0, 1e-6))
	reg := NewRegistry()
	require.NoError(t, reg.Enable(RotationCanonPassName))

	// rotation-canonicalization normally needs level 3
	out, _, err := Optimize(m, reg, 1)
	require.NoError(t, err)
	assert.Zero(t, out.NumInstructions())
}

func TestStatisticsAccuracy(t *testing.T) {
	insts := []*qir.Instruction{
		qir.MustGate(qir.OpH, 0), qir.MustGate(qir.OpH, 0), // -2
		qir.MustRotation(qir.OpRz, 1, 0.5), qir.MustRotation(qir.OpRz, 1, 0.25), // -1
		qir.MustCNOT(2, 3), qir.MustCNOT(2, 3), // -2
		qir.MustGate(qir.OpY, 2), // untouched
	}
	out, stats := runFusion(t, insts...)
	assert.Equal(t, uint64(len(insts)-len(out)), stats.GatesRemoved)
	assert.Equal(t, uint64(5), stats.GatesRemoved)
	assert.Equal(t, uint64(3), stats.PatternsFused)
}

func TestMalformedInstructionAborts(t *testing.T) {
	bad := &qir.Instruction{}
	stats := NewStats()
	_, err := (&FusionPass{}).Run(block(bad), stats)
	assert.Error(t, err)
}
