package model

// AllocationResult is the complete output of one allocation run.
// It implements JSON serialization for direct use in HTTP responses.
//
// @Description Result of distributing shipped units across locations
type AllocationResult struct {
	// Allocation is the per-location, per-size distribution.
	Allocation AllocationMatrix `json:"allocation"`
	// Totals holds the per-size column sums of the allocation.
	Totals SizeVector `json:"totals"`
	// Overage holds units shipped beyond what was bought, per size.
	// These are routed to the sink location.
	Overage SizeVector `json:"overage,omitempty"`
	// PackSize is the number of units in the pack shape used for this run.
	PackSize int `json:"pack_size" example:"10"`
	// PackCounts is the number of whole packs each store was entitled to.
	PackCounts map[string]int `json:"pack_counts,omitempty"`
}

// EmptyResult returns a zero allocation across the given locations.
func EmptyResult(locations []string) AllocationResult {
	return AllocationResult{
		Allocation: EmptyMatrix(locations),
		Totals:     SizeVector{},
		Overage:    SizeVector{},
		PackCounts: map[string]int{},
	}
}

// MatchesShip reports whether the allocation's totals equal the shipped
// quantities for every size. Callers use this to render the "allocation
// matches ship" indicator and to gate closeout.
func (r AllocationResult) MatchesShip(ship SizeVector) bool {
	return r.Totals.EqualPerSize(ship)
}
