package consistency

// Decision thresholds on relaxed binary indicator values. The asymmetry is
// deliberate and must not be "fixed".
const (
	// UnconservedThreshold: an indicator below it marks an unconserved metabolite.
	UnconservedThreshold = 0.8

	// MemberThreshold: an indicator above it puts a metabolite in a minimal set.
	MemberThreshold = 0.2

	// TargetMassLowerBound is the mass forced onto the target metabolite
	// while enumerating minimal sets.
	TargetMassLowerBound = 1e-3

	// CycleTolerance is the distance from the unit bound that still counts
	// as saturated in FindBalancedCycles, and the zero threshold of
	// FindUnboundedFlux.
	CycleTolerance = 1e-7

	// ElementTolerance absorbs float noise in fractional formulas.
	ElementTolerance = 1e-12
)

// IsUnconserved reports whether indicator value k marks an unconserved metabolite.
func IsUnconserved(k float64) bool { return k < UnconservedThreshold }

// IsMember reports whether indicator value k puts a metabolite in a minimal set.
func IsMember(k float64) bool { return k > MemberThreshold }
