package section

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// No pack example carries a TF-IDF/cosine-similarity library either —
// same gap as partialRatio in fuzzy.go. Justified stdlib implementation,
// see DESIGN.md.

var englishStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true, "this": true, "these": true, "those": true,
	"their": true, "they": true, "you": true, "your": true,
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases, extracts alphanumeric words, and drops stop words.
func tokenize(text string) []string {
	words := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !englishStopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// ngrams builds word n-grams of sizes 1..maxN from already-tokenized words.
func ngrams(words []string, maxN int) []string {
	var out []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}

// tfidfVectorizer is a minimal TF-IDF vectorizer: word n-grams 1..3,
// English stop-word removal, a vocabulary capped at maxFeatures (by
// document frequency, matching sklearn's TfidfVectorizer default
// tie-break of "most frequent wins"), smoothed IDF, and L2-normalized
// output vectors so cosine similarity reduces to a dot product.
type tfidfVectorizer struct {
	vocab      map[string]int // term -> column index
	idf        []float64
	maxFeatures int
}

func newTFIDFVectorizer(maxFeatures int) *tfidfVectorizer {
	return &tfidfVectorizer{maxFeatures: maxFeatures}
}

// fit builds the vocabulary and IDF weights from a reference corpus.
func (v *tfidfVectorizer) fit(docs []string) {
	df := map[string]int{}
	for _, doc := range docs {
		terms := ngrams(tokenize(doc), 3)
		seen := map[string]bool{}
		for _, t := range terms {
			if !seen[t] {
				df[t]++
				seen[t] = true
			}
		}
	}

	type termFreq struct {
		term string
		freq int
	}
	all := make([]termFreq, 0, len(df))
	for t, f := range df {
		all = append(all, termFreq{t, f})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].freq != all[j].freq {
			return all[i].freq > all[j].freq
		}
		return all[i].term < all[j].term
	})
	if len(all) > v.maxFeatures {
		all = all[:v.maxFeatures]
	}

	v.vocab = make(map[string]int, len(all))
	v.idf = make([]float64, len(all))
	n := float64(len(docs))
	for i, tf := range all {
		v.vocab[tf.term] = i
		v.idf[i] = math.Log((n+1)/(float64(tf.freq)+1)) + 1
	}
}

// transform projects text into the fitted TF-IDF space, L2-normalized.
func (v *tfidfVectorizer) transform(text string) []float64 {
	vec := make([]float64, len(v.vocab))
	terms := ngrams(tokenize(text), 3)
	for _, t := range terms {
		if idx, ok := v.vocab[t]; ok {
			vec[idx]++
		}
	}
	for i := range vec {
		vec[i] *= v.idf[i]
	}
	normalize(vec)
	return vec
}

func normalize(vec []float64) {
	var sumSq float64
	for _, x := range vec {
		sumSq += x * x
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] /= norm
	}
}

// cosineSimilarity assumes both vectors are already L2-normalized.
func cosineSimilarity(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
