// Package driver - statistics reporting
package driver

import (
	"fmt"
	"io"
	"sort"

	"github.com/GriffinCanCode/quanta-compiler/pkg/optimizer"
)

// Report writes the per-stage timing and optimization statistics for one
// compilation unit.
func (r *Result) Report(w io.Writer) {
	fmt.Fprintf(w, "%s:\n", r.Input)
	for _, sr := range r.Stages {
		status := "ok"
		if !sr.OK {
			status = "FAILED"
		}
		fmt.Fprintf(w, "  %-22s %-6s %12s", sr.Stage, status, sr.Duration)
		if sr.Eliminated > 0 {
			fmt.Fprintf(w, "  eliminated=%d", sr.Eliminated)
		}
		if sr.Artifact != "" {
			fmt.Fprintf(w, "  artifact=%s", sr.Artifact)
		}
		fmt.Fprintln(w)
	}

	if r.Stats == nil {
		return
	}
	fmt.Fprintf(w, "  gates removed:   %d\n", r.Stats.GatesRemoved)
	fmt.Fprintf(w, "  patterns fused:  %d\n", r.Stats.PatternsFused)

	if len(r.Stats.ByCategory) > 0 {
		cats := make([]string, 0, len(r.Stats.ByCategory))
		for cat := range r.Stats.ByCategory {
			cats = append(cats, string(cat))
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Fprintf(w, "    %-22s %d\n", cat, r.Stats.ByCategory[optimizer.Category(cat)])
		}
	}

	if r.OriginalSize > 0 {
		reduction := 0.0
		if r.OptimizedSize <= r.OriginalSize {
			reduction = float64(r.OriginalSize-r.OptimizedSize) / float64(r.OriginalSize) * 100
		}
		fmt.Fprintf(w, "  original size:   %d instructions\n", r.OriginalSize)
		fmt.Fprintf(w, "  optimized size:  %d instructions\n", r.OptimizedSize)
		fmt.Fprintf(w, "  reduction:       %.1f%%\n", reduction)
	}
}
