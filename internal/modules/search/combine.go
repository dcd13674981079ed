// README: Set algebra combining origin-side and destination-side candidates.
package search

// SideResult is the outcome of running all candidate strategies for one
// query side.
type SideResult struct {
	// Provided is true when the query named this side at all.
	Provided bool
	// Exhausted is true when the side was provided but every strategy
	// came back empty.
	Exhausted bool
	IDs       IDSet
}

// Combine merges the two sides' candidate sets. A provided but exhausted
// side makes the whole result empty: a trip with an unsatisfiable endpoint
// matches nothing, even if the other endpoint alone would. When neither
// side is provided, unfiltered is true and the caller searches the whole
// ride collection.
func Combine(origin, dest SideResult) (ids IDSet, unfiltered bool) {
	if (origin.Provided && origin.Exhausted) || (dest.Provided && dest.Exhausted) {
		return NewIDSet(), false
	}
	switch {
	case origin.Provided && dest.Provided:
		return origin.IDs.Intersect(dest.IDs), false
	case origin.Provided:
		return origin.IDs, false
	case dest.Provided:
		return dest.IDs, false
	default:
		return nil, true
	}
}
