package section

import "github.com/spherical-ai/fdd-pipeline/internal/layout"

// Method identifies which evidence method produced a SectionCandidate.
type Method string

const (
	MethodTitle        Method = "title"
	MethodPattern      Method = "pattern"
	MethodFuzzy        Method = "fuzzy"
	MethodCosine       Method = "cosine"
	MethodInterpolated Method = "interpolated"
	MethodFallback     Method = "fallback"
)

// Candidate is one piece of evidence that a page starts a given item.
type Candidate struct {
	ItemNo     int
	ItemName   string
	PageNumber int // 1-based
	Confidence float64
	Text       string
	BBox       [4]float64
	Method     Method
	ElementKind layout.BlockKind
}

// Boundary is the final, validated page range assigned to one item.
type Boundary struct {
	ItemNo     int
	ItemName   string
	StartPage  int
	EndPage    int
	Confidence float64
	Method     Method
}
