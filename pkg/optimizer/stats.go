// Package optimizer - rewrite statistics
package optimizer

// Category classifies a successful fusion
type Category string

const (
	CategoryCancellation Category = "cancellation"
	CategoryRotation     Category = "rotation-merge"
	CategoryConjugation  Category = "conjugation-identity"
	CategoryControl      Category = "control-merge"
)

// Stats accumulates rewrite counts for one optimization run. Counts are
// monotonically non-decreasing within a run and reset between runs.
type Stats struct {
	GatesRemoved  uint64
	PatternsFused uint64
	ByCategory    map[Category]uint64
	PassChanges   map[string]uint64
}

// NewStats returns zeroed statistics
func NewStats() *Stats {
	return &Stats{
		ByCategory:  make(map[Category]uint64),
		PassChanges: make(map[string]uint64),
	}
}

// Reset zeroes the statistics in place
func (s *Stats) Reset() {
	s.GatesRemoved = 0
	s.PatternsFused = 0
	s.ByCategory = make(map[Category]uint64)
	s.PassChanges = make(map[string]uint64)
}

// Merge folds another run's counts into s. The driver uses it to report
// combined IR-level and bytecode-level totals.
func (s *Stats) Merge(o *Stats) {
	if o == nil {
		return
	}
	s.GatesRemoved += o.GatesRemoved
	s.PatternsFused += o.PatternsFused
	for cat, n := range o.ByCategory {
		s.ByCategory[cat] += n
	}
	for name, n := range o.PassChanges {
		s.PassChanges[name] += n
	}
}

// recordFusion tallies one strict reduction of a run
func (s *Stats) recordFusion(cat Category, removed int) {
	s.GatesRemoved += uint64(removed)
	s.PatternsFused++
	s.ByCategory[cat]++
}

// recordPass tallies instructions removed by a named pass
func (s *Stats) recordPass(name string, removed int) {
	if removed > 0 {
		s.PassChanges[name] += uint64(removed)
	}
}
