package section

// applyMinLength enforces per-item minimum page-count requirements,
// working from item 24 backward. A short section first tries to extend
// its end_page forward, cascading the start pages of later items; if that
// would overrun total_pages, its start_page is pulled earlier instead, up
// to (but not into) the previous item's start. A final reconciliation
// pass restores the overlap invariant across the whole list.
func applyMinLength(totalPages int, boundaries []Boundary) []Boundary {
	out := make([]Boundary, len(boundaries))
	copy(out, boundaries)

	for itemNo := totalItems - 1; itemNo >= 0; itemNo-- {
		min, ok := MinPageRequirements[itemNo]
		if !ok {
			continue
		}
		length := out[itemNo].EndPage - out[itemNo].StartPage + 1
		if length >= min {
			continue
		}

		desiredEnd := out[itemNo].StartPage + min - 1
		if desiredEnd <= totalPages {
			extendEndForward(out, itemNo, desiredEnd, totalPages)
		} else {
			pullStartEarlier(out, itemNo, min, totalPages)
		}
	}

	reconcileOverlaps(out, totalPages)
	return out
}

// extendEndForward grows item itemNo's end page, cascading the start page
// of subsequent items forward so no later item's range is left invalid.
func extendEndForward(boundaries []Boundary, itemNo, desiredEnd, totalPages int) {
	boundaries[itemNo].EndPage = desiredEnd
	for j := itemNo + 1; j < totalItems; j++ {
		if boundaries[j].StartPage >= desiredEnd {
			break
		}
		boundaries[j].StartPage = desiredEnd
		if boundaries[j].EndPage < boundaries[j].StartPage {
			if j == totalItems-1 {
				boundaries[j].EndPage = totalPages
			} else {
				boundaries[j].EndPage = boundaries[j].StartPage
			}
		}
		desiredEnd = boundaries[j].EndPage
	}
}

// pullStartEarlier moves item itemNo's start page earlier (up to, but not
// into, the previous item's start) when extending forward would overrun
// total_pages.
func pullStartEarlier(boundaries []Boundary, itemNo, min, totalPages int) {
	boundaries[itemNo].EndPage = totalPages
	prevStart := 1
	if itemNo > 0 {
		prevStart = boundaries[itemNo-1].StartPage
	}
	newStart := totalPages - min + 1
	if newStart <= prevStart {
		newStart = prevStart + 1
	}
	if newStart < 1 {
		newStart = 1
	}
	boundaries[itemNo].StartPage = newStart
	if itemNo > 0 {
		boundaries[itemNo-1].EndPage = newStart
	}
}

// reconcileOverlaps is a final pass enforcing start_page non-decreasing,
// end_page[i] = start_page[i+1], and end_page[24] = total_pages.
func reconcileOverlaps(boundaries []Boundary, totalPages int) {
	for i := 1; i < totalItems; i++ {
		if boundaries[i].StartPage < boundaries[i-1].StartPage {
			boundaries[i].StartPage = boundaries[i-1].StartPage
		}
		boundaries[i-1].EndPage = boundaries[i].StartPage
	}
	boundaries[totalItems-1].EndPage = totalPages
}
