package index

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// docSet is a set of document IDs.
type docSet map[int64]struct{}

// TermFrequency is the number of occurrences of a stem in the corpus.
type TermFrequency struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

// Index maps stems to the documents that contain them.
// An Index is not safe for concurrent writes; Search may be called
// concurrently once building is done.
type Index struct {
	postings map[string]docSet
	urls     map[int64]string
	freqs    map[string]int
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		postings: make(map[string]docSet),
		urls:     make(map[int64]string),
		freqs:    make(map[string]int),
	}
}

// Add indexes text as document id and returns the number of tokens found
// and their combined length in runes. Each document must be added once.
func (ix *Index) Add(id int64, url, text string) (tokens, runes int) {
	ix.urls[id] = url

	for _, token := range Tokenize(text) {
		stem := Stem(token)
		docs, ok := ix.postings[stem]
		if !ok {
			docs = make(docSet)
			ix.postings[stem] = docs
		}
		docs[id] = struct{}{}
		ix.freqs[stem]++

		tokens++
		runes += utf8.RuneCountInString(token)
	}
	return tokens, runes
}

// Documents returns the number of indexed documents.
func (ix *Index) Documents() int {
	return len(ix.urls)
}

// Terms returns the number of distinct stems.
func (ix *Index) Terms() int {
	return len(ix.postings)
}

// URL returns the URL of document id, or "" if it is not indexed.
func (ix *Index) URL(id int64) string {
	return ix.urls[id]
}

// Postings returns the sorted IDs of the documents containing stem.
func (ix *Index) Postings(stem string) []int64 {
	return sortedIDs(ix.postings[stem])
}

// TopTerms returns the n most frequent stems, most frequent first; ties
// are ordered by stem. A non-positive n returns every stem.
func (ix *Index) TopTerms(n int) []TermFrequency {
	terms := make([]TermFrequency, 0, len(ix.freqs))
	for term, freq := range ix.freqs {
		terms = append(terms, TermFrequency{Term: term, Frequency: freq})
	}
	slices.SortFunc(terms, func(a, b TermFrequency) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if n > 0 && n < len(terms) {
		terms = terms[:n]
	}
	return terms
}

// sortedIDs returns the members of set in ascending order.
func sortedIDs(set docSet) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
