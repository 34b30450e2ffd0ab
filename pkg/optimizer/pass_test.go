package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

func TestRegistryUnknownPass(t *testing.T) {
	reg := NewRegistry()
	err := reg.Enable("no-such-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPass)

	err = reg.Disable("also-missing")
	assert.ErrorIs(t, err, ErrUnknownPass)
}

func TestRegistryPassNames(t *testing.T) {
	names := NewRegistry().PassNames()
	assert.Equal(t, []string{
		FusionPassName,
		DeadGatePassName,
		RotationCanonPassName,
	}, names)
}

func TestRegistryLevelGating(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.active(0))
	assert.Len(t, reg.active(1), 1)
	assert.Len(t, reg.active(2), 2)
	assert.Len(t, reg.active(3), 3)
}

func TestRegistryDisableBeatsEnable(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Enable(FusionPassName))
	require.NoError(t, reg.Disable(FusionPassName))
	for _, p := range reg.active(3) {
		assert.NotEqual(t, FusionPassName, p.Name())
	}
}

func TestDeadGateElimination(t *testing.T) {
	measure, err := qir.NewMeasure(0, 0)
	require.NoError(t, err)

	b := block(
		qir.MustGate(qir.OpH, 0), // observed by the measure
		qir.MustGate(qir.OpX, 1), // q1 never measured
		measure,
		qir.MustGate(qir.OpZ, 0), // after the last measure of q0
	)

	stats := NewStats()
	out, err := (&DeadGatePass{}).Run(b, stats)
	require.NoError(t, err)
	require.Len(t, out.Insts, 2)
	assert.Equal(t, qir.OpH, out.Insts[0].Opcode())
	assert.Equal(t, qir.OpMeasure, out.Insts[1].Opcode())
	assert.Equal(t, uint64(2), stats.PassChanges[DeadGatePassName])
}

func TestDeadGateKeepsMeasurelessBlock(t *testing.T) {
	b := block(qir.MustGate(qir.OpH, 0), qir.MustCNOT(0, 1))
	out, err := (&DeadGatePass{}).Run(b, NewStats())
	require.NoError(t, err)
	assert.Len(t, out.Insts, 2)
}

func TestDeadGateKeepsTwoQubitGateWithOneObservedQubit(t *testing.T) {
	measure, err := qir.NewMeasure(1, 0)
	require.NoError(t, err)

	b := block(qir.MustCNOT(0, 1), measure)
	out, err := (&DeadGatePass{}).Run(b, NewStats())
	require.NoError(t, err)
	assert.Len(t, out.Insts, 2)
}

func TestRotationCanonicalization(t *testing.T) {
	b := block(
		qir.MustRotation(qir.OpRz, 0, 1e-6),
		qir.MustRotation(qir.OpRx, 1, 2*math.Pi+1e-6),
		qir.MustRotation(qir.OpRy, 2, 0.5),
	)
	stats := NewStats()
	out, err := (&RotationCanonPass{}).Run(b, stats)
	require.NoError(t, err)
	require.Len(t, out.Insts, 1)
	assert.Equal(t, qir.OpRy, out.Insts[0].Opcode())
	assert.Equal(t, uint64(2), stats.PassChanges[RotationCanonPassName])
}

func TestStatsMerge(t *testing.T) {
	a := NewStats()
	a.recordFusion(CategoryCancellation, 2)
	b := NewStats()
	b.recordFusion(CategoryCancellation, 3)
	b.recordPass("p", 1)

	a.Merge(b)
	assert.Equal(t, uint64(5), a.GatesRemoved)
	assert.Equal(t, uint64(2), a.PatternsFused)
	assert.Equal(t, uint64(2), a.ByCategory[CategoryCancellation])
	assert.Equal(t, uint64(1), a.PassChanges["p"])
}
