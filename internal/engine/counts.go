package engine

// ResolutionCap is the maximum number of requirements any single candidate
// path may absorb (Already and Edit outcomes combined) in one run.
const ResolutionCap = 2

// resolutionCounts tracks per-path accepted resolutions for one
// invocation. It is constructed fresh per run and never shared.
type resolutionCounts map[string]int

// available reports whether the path may still absorb a resolution.
func (rc resolutionCounts) available(path string) bool {
	return rc[path] < ResolutionCap
}

// increment records one accepted resolution against the path.
func (rc resolutionCounts) increment(path string) {
	rc[path]++
}
