package router

// ModelHandle identifies one of the fixed set of backends the router can
// select: a locally-runnable small model and two large hosted models.
type ModelHandle string

const (
	HandleLocal     ModelHandle = "local"
	HandleHostedA   ModelHandle = "hosted-a"
	HandleHostedB   ModelHandle = "hosted-b"
)

// Tier classifies an item's extraction complexity.
type Tier string

const (
	TierSimple  Tier = "simple"
	TierComplex Tier = "complex"
	TierMedium  Tier = "medium"
)

var simpleItems = map[int]bool{5: true, 6: true, 7: true}
var complexItems = map[int]bool{19: true, 21: true}

// TierForItem classifies an item per §4.5: {5,6,7} simple, {19,21}
// complex, everything else (including 20) medium.
func TierForItem(itemNo int) Tier {
	if simpleItems[itemNo] {
		return TierSimple
	}
	if complexItems[itemNo] {
		return TierComplex
	}
	return TierMedium
}

// preferredPrimary returns the handle a tier prefers to try first.
func preferredPrimary(tier Tier) ModelHandle {
	if tier == TierSimple {
		return HandleLocal
	}
	return HandleHostedA
}

// allHandles lists the fixed backend set in a stable order used to fill
// out a fallback chain after the primary.
var allHandles = []ModelHandle{HandleLocal, HandleHostedA, HandleHostedB}
