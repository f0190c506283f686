package section

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spherical-ai/fdd-pipeline/internal/layout"
)

const (
	titleConfidence   = 0.95
	patternConfidence = 0.80
	fuzzyMinScore     = 75.0
	cosineMinSim      = 0.5
	maxFuzzyTextLen   = 200
)

// itemPattern matches a literal "Item N" anchored at the start of the
// text, followed by a separator (":", ".", "-"), whitespace, or end of
// string.
var itemPattern = regexp.MustCompile(`(?i)^\s*item\s+(\d{1,2})\s*(?:[:.\-]|\s|$)`)

// itemPatternAnywhere matches "Item N" occurring anywhere in a block,
// used by the pattern method to pick up table-of-contents lines listing
// several items in one block.
var itemPatternAnywhere = regexp.MustCompile(`(?i)item\s+(\d{1,2})\s*(?:[:.\-]|\s|$)`)

var coverPatterns = regexp.MustCompile(`(?i)^\s*(table of contents|cover page|franchise disclosure document)\b`)
var appendixPatterns = regexp.MustCompile(`(?i)^\s*(appendix|exhibit[s]?)\b`)

var boilerplatePhrases = []string{
	"the franchisor is",
	"receipt (your copy)",
	"receipt acknowledgement",
	"this disclosure document summarizes",
}

// referenceTexts returns the canonical name plus all known variations
// for an item, used by both the fuzzy and cosine evidence methods.
func referenceTexts(itemNo int) []string {
	out := []string{CanonicalNames[itemNo]}
	out = append(out, Variations[itemNo]...)
	return out
}

// isHeaderShaped approximates the "looks like a section header" heuristic:
// short, and either all-caps, title-case, or containing a known header
// phrase ("item", "section", "part").
func isHeaderShaped(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len([]rune(trimmed)) > maxFuzzyTextLen {
		return false
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "item") || strings.Contains(lower, "section") || strings.Contains(lower, "part") {
		return true
	}
	if trimmed == strings.ToUpper(trimmed) && strings.ToLower(trimmed) != trimmed {
		return true
	}
	return isTitleCase(trimmed)
}

func isTitleCase(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	capped := 0
	for _, w := range words {
		r := []rune(w)
		if len(r) > 0 && strings.ToUpper(string(r[0])) == string(r[0]) {
			capped++
		}
	}
	return float64(capped)/float64(len(words)) >= 0.6
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// passesItemValidation applies the item-level required/disqualifying
// keyword table; items without a registered rule always pass.
func passesItemValidation(itemNo int, text string) bool {
	rule, ok := validationRules[itemNo]
	if !ok {
		return true
	}
	lower := strings.ToLower(text)
	if len(rule.required) > 0 {
		found := false
		for _, kw := range rule.required {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, kw := range rule.disqualifying {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// titleCandidates implements the title evidence method (confidence 0.95):
// title-kind blocks with an anchored "Item N" pattern, plus cover/TOC and
// appendix patterns for items 0 and 24.
func titleCandidates(doc *layout.Document) []Candidate {
	var out []Candidate
	for _, page := range doc.Pages {
		pageNo := page.PageIndex + 1
		for _, block := range page.Blocks {
			if block.Kind != layout.KindTitle {
				continue
			}
			if m := itemPattern.FindStringSubmatch(block.Text); m != nil {
				n, _ := strconv.Atoi(m[1])
				if n < 1 || n > 23 || !passesItemValidation(n, block.Text) {
					continue
				}
				out = append(out, newCandidate(n, pageNo, titleConfidence, block, MethodTitle))
				continue
			}
			if coverPatterns.MatchString(block.Text) {
				out = append(out, newCandidate(0, pageNo, titleConfidence, block, MethodTitle))
			}
			if appendixPatterns.MatchString(block.Text) {
				out = append(out, newCandidate(24, pageNo, titleConfidence, block, MethodTitle))
			}
		}
	}
	return out
}

// patternCandidates implements the pattern evidence method (confidence
// 0.80): any block containing one or more "Item N" occurrences, yielding
// one candidate per match (table-of-contents lines listing several items
// contribute multiple candidates).
func patternCandidates(doc *layout.Document) []Candidate {
	var out []Candidate
	for _, page := range doc.Pages {
		pageNo := page.PageIndex + 1
		for _, block := range page.Blocks {
			matches := itemPatternAnywhere.FindAllStringSubmatch(block.Text, -1)
			for _, m := range matches {
				n, _ := strconv.Atoi(m[1])
				if n < 0 || n > 24 || !passesItemValidation(n, block.Text) {
					continue
				}
				out = append(out, newCandidate(n, pageNo, patternConfidence, block, MethodPattern))
			}
		}
	}
	return out
}

// fuzzyCandidates implements the fuzzy evidence method (confidence =
// score/100), limited to blocks within the first 80% of the document.
func fuzzyCandidates(doc *layout.Document, minScore float64) []Candidate {
	cutoff := fuzzyPageCutoff(doc.TotalPages)
	var out []Candidate
	for _, page := range doc.Pages {
		pageNo := page.PageIndex + 1
		if pageNo > cutoff {
			continue
		}
		for _, block := range page.Blocks {
			if !isHeaderShaped(block.Text) || isBoilerplate(block.Text) {
				continue
			}
			for itemNo := 0; itemNo <= 24; itemNo++ {
				if !passesItemValidation(itemNo, block.Text) {
					continue
				}
				best := 0.0
				for _, ref := range referenceTexts(itemNo) {
					if score := partialRatio(block.Text, ref); score > best {
						best = score
					}
				}
				if best >= minScore {
					out = append(out, newCandidate(itemNo, pageNo, best/100.0, block, MethodFuzzy))
				}
			}
		}
	}
	return out
}

// cosineCandidates implements the cosine evidence method (confidence =
// similarity), limited to blocks within the first 80% of the document.
func cosineCandidates(doc *layout.Document, vectorizer *tfidfVectorizer, minSim float64) []Candidate {
	cutoff := fuzzyPageCutoff(doc.TotalPages)

	refVectors := make(map[int][]float64, totalItems)
	for itemNo := 0; itemNo <= 24; itemNo++ {
		refVectors[itemNo] = vectorizer.transform(strings.Join(referenceTexts(itemNo), " "))
	}

	var out []Candidate
	for _, page := range doc.Pages {
		pageNo := page.PageIndex + 1
		if pageNo > cutoff {
			continue
		}
		for _, block := range page.Blocks {
			if !isHeaderShaped(block.Text) || isBoilerplate(block.Text) {
				continue
			}
			blockVec := vectorizer.transform(block.Text)
			for itemNo := 0; itemNo <= 24; itemNo++ {
				if !passesItemValidation(itemNo, block.Text) {
					continue
				}
				sim := cosineSimilarity(blockVec, refVectors[itemNo])
				if sim >= minSim {
					out = append(out, newCandidate(itemNo, pageNo, sim, block, MethodCosine))
				}
			}
		}
	}
	return out
}

func fuzzyPageCutoff(totalPages int) int {
	cutoff := int(float64(totalPages) * 0.8)
	if cutoff < 1 {
		cutoff = totalPages
	}
	return cutoff
}

func newCandidate(itemNo, pageNo int, confidence float64, block layout.Block, method Method) Candidate {
	return Candidate{
		ItemNo:      itemNo,
		ItemName:    CanonicalNames[itemNo],
		PageNumber:  pageNo,
		Confidence:  confidence,
		Text:        block.Text,
		BBox:        block.BBox,
		Method:      method,
		ElementKind: block.Kind,
	}
}

// referenceCorpus returns every canonical name and variation string, used
// to fit the shared TF-IDF vectorizer.
func referenceCorpus() []string {
	var corpus []string
	for itemNo := 0; itemNo <= 24; itemNo++ {
		corpus = append(corpus, referenceTexts(itemNo)...)
	}
	return corpus
}

// generateCandidates pools all four evidence methods over the document.
func generateCandidates(doc *layout.Document) []Candidate {
	vectorizer := newTFIDFVectorizer(1000)
	vectorizer.fit(referenceCorpus())

	var all []Candidate
	all = append(all, titleCandidates(doc)...)
	all = append(all, patternCandidates(doc)...)
	all = append(all, fuzzyCandidates(doc, fuzzyMinScore)...)
	all = append(all, cosineCandidates(doc, vectorizer, cosineMinSim)...)
	return all
}
