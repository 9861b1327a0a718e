package knowledge

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"
)

// termVector is a sparse bag-of-words vector keyed by FNV-hashed terms.
type termVector map[uint64]float64

// vectorize tokenizes text into ident-like words (letter/digit/underscore
// runs), lowercases them, and accumulates hashed term frequencies.
func vectorize(text string) termVector {
	vec := termVector{}
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(strings.ToLower(word.String())))
		vec[h.Sum64()]++
		word.Reset()
	}
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return vec
}

// cosineDistance returns 1 - cosine similarity between two term vectors.
// Two empty vectors are maximally distant.
func cosineDistance(a, b termVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1
	}
	var dot, na, nb float64
	for k, av := range a {
		na += av * av
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// ranked pairs a document index with its distance for sorting.
type ranked struct {
	idx      int
	distance float64
}

// rankVectors scores every document vector against the query and returns
// indices ordered by increasing distance; equal distances keep the original
// (insertion) order.
func rankVectors(query termVector, docs []termVector, topK int) []ranked {
	out := make([]ranked, 0, len(docs))
	for i, d := range docs {
		out = append(out, ranked{idx: i, distance: cosineDistance(query, d)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].distance < out[j].distance })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
