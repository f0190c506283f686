package section

import (
	"math"

	"github.com/spherical-ai/fdd-pipeline/internal/layout"
)

// assignSections runs the sequential phased-priority assignment algorithm
// over pooled evidence candidates, producing one unadjusted Boundary per
// item (end_page set to the overlap rule, before minimum-length
// adjustment). Item 0 always starts on page 1. Items with no qualifying
// candidate in any phase are interpolated; if there is no evidence at all
// for the whole document, every item is placed by even distribution.
func assignSections(totalPages int, candidates []Candidate) []Boundary {
	if len(candidates) == 0 {
		return evenDistributionFallback(totalPages)
	}

	byItem := make(map[int][]Candidate, totalItems)
	for _, c := range candidates {
		byItem[c.ItemNo] = append(byItem[c.ItemNo], c)
	}

	starts := make([]int, totalItems)
	methods := make([]Method, totalItems)
	confidences := make([]float64, totalItems)

	minPage := 1
	maxPage := totalPages + 1 // exclusive; unconstrained above during the sequential pass
	for itemNo := 0; itemNo < totalItems; itemNo++ {
		cands := byItem[itemNo]

		chosen, found := selectByPhase(cands, minPage, maxPage)

		var start int
		var method Method
		var confidence float64
		if found {
			start = chosen.PageNumber
			method = chosen.Method
			confidence = chosen.Confidence
		} else {
			start = interpolateStart(itemNo, minPage, totalPages)
			method = MethodInterpolated
			confidence = 0.3
		}

		if itemNo == 0 {
			start = 1
		}
		if start < minPage {
			start = minPage
		}

		starts[itemNo] = start
		methods[itemNo] = method
		confidences[itemNo] = confidence
		minPage = start
	}

	return buildBoundaries(totalPages, starts, methods, confidences)
}

// selectByPhase applies phases A..D in priority order, returning the first
// phase's best in-range candidate.
func selectByPhase(cands []Candidate, minPage, maxPage int) (Candidate, bool) {
	if best, ok := bestInRange(filterMethod(cands, MethodTitle), minPage, maxPage, false); ok {
		return best, true
	}
	if best, ok := bestInRange(filterMethod(cands, MethodFuzzy), minPage, maxPage, true); ok {
		return best, true
	}
	if best, ok := bestInRange(filterMethod(cands, MethodPattern), minPage, maxPage, false); ok {
		return best, true
	}
	if best, ok := bestInRange(filterMethod(cands, MethodCosine), minPage, maxPage, false); ok {
		return best, true
	}
	return Candidate{}, false
}

func filterMethod(cands []Candidate, method Method) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// bestInRange returns the highest-priority candidate whose page falls in
// [minPage, maxPage). Tiebreak is (optionally title-kind first, then
// higher confidence, then earlier page).
func bestInRange(cands []Candidate, minPage, maxPage int, preferTitleKind bool) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if c.PageNumber < minPage || c.PageNumber >= maxPage {
			continue
		}
		if !found || better(c, best, preferTitleKind) {
			best = c
			found = true
		}
	}
	return best, found
}

func better(a, b Candidate, preferTitleKind bool) bool {
	if preferTitleKind {
		aTitle, bTitle := a.ElementKind == layout.KindTitle, b.ElementKind == layout.KindTitle
		if aTitle != bTitle {
			return aTitle
		}
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.PageNumber < b.PageNumber
}

// interpolateStart computes the fallback start page for an item with no
// qualifying candidate: clamp(min_page, round(1 + (total_pages-1) *
// item_no/24), total_pages - (24 - item_no)).
func interpolateStart(itemNo, minPage, totalPages int) int {
	raw := int(math.Round(1 + float64(totalPages-1)*float64(itemNo)/24))
	high := totalPages - (24 - itemNo)
	if raw < minPage {
		raw = minPage
	}
	if raw > high {
		raw = high
	}
	if raw < 1 {
		raw = 1
	}
	return raw
}

// evenDistributionFallback handles the case of zero evidence for the
// entire document: every item is placed by even distribution, confidence
// 0.1, method fallback.
func evenDistributionFallback(totalPages int) []Boundary {
	starts := make([]int, totalItems)
	for itemNo := 0; itemNo < totalItems; itemNo++ {
		s := int(math.Round(1 + float64(totalPages-1)*float64(itemNo)/24))
		if s < 1 {
			s = 1
		}
		if itemNo > 0 && s < starts[itemNo-1] {
			s = starts[itemNo-1]
		}
		starts[itemNo] = s
	}
	starts[0] = 1

	methods := make([]Method, totalItems)
	confidences := make([]float64, totalItems)
	for i := range methods {
		methods[i] = MethodFallback
		confidences[i] = 0.1
	}
	return buildBoundaries(totalPages, starts, methods, confidences)
}

// buildBoundaries applies the overlap rule (end_page[i] = start_page[i+1],
// end_page[24] = total_pages) to a set of assigned start pages.
func buildBoundaries(totalPages int, starts []int, methods []Method, confidences []float64) []Boundary {
	boundaries := make([]Boundary, totalItems)
	for itemNo := 0; itemNo < totalItems; itemNo++ {
		end := totalPages
		if itemNo < totalItems-1 {
			end = starts[itemNo+1]
		}
		boundaries[itemNo] = Boundary{
			ItemNo:     itemNo,
			ItemName:   CanonicalNames[itemNo],
			StartPage:  starts[itemNo],
			EndPage:    end,
			Confidence: confidences[itemNo],
			Method:     methods[itemNo],
		}
	}
	return boundaries
}
