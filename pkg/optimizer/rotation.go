// Package optimizer - rotation canonicalization pass
package optimizer

import (
	"math"

	"github.com/GriffinCanCode/quanta-compiler/pkg/qir"
)

// RotationCanonPassName identifies the rotation canonicalization pass
const RotationCanonPassName = "rotation-canonicalization"

// RotationCanonPass drops lone rotations whose angle is within epsilon of
// 0 or 2π. The fusion engine only rewrites runs of length two or more, so
// a single identity rotation survives fusion; this pass catches it.
type RotationCanonPass struct{}

func (*RotationCanonPass) Name() string { return RotationCanonPassName }

func (*RotationCanonPass) MinLevel() int { return 3 }

func (*RotationCanonPass) Run(b *qir.Block, stats *Stats) (*qir.Block, error) {
	out := make([]*qir.Instruction, 0, len(b.Insts))
	removed := 0
	for _, in := range b.Insts {
		if err := in.CheckWellFormed(); err != nil {
			return nil, err
		}
		if in.Opcode().IsRotation() && identityAngle(in.Angle()) {
			removed++
			continue
		}
		out = append(out, in)
	}

	stats.recordPass(RotationCanonPassName, removed)
	if removed == 0 {
		return b, nil
	}
	return qir.NewBlock(b.Label, out), nil
}

func identityAngle(angle float64) bool {
	return math.Abs(angle) < angleEpsilon || math.Abs(angle-2*math.Pi) < angleEpsilon
}
