package index

import (
	"maps"
	"strings"
)

// Query operators. They are matched case-insensitively against whole
// query words.
const (
	OpAnd = "and"
	OpOr  = "or"
	OpNot = "not"
)

// Match is one document returned by Search.
type Match struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// SearchResult is the answer to one query.
type SearchResult struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
}

// Search evaluates a boolean query from left to right.
//
// Query words are separated by whitespace. The words and, or and not set
// the operator applied to every following term until the next operator;
// the initial operator is and. Every other word is tokenized and stemmed
// like indexed text, and each resulting term combines its posting list
// with the running result. The first term starts the result; if it is
// preceded by not, the result starts as every document without the term.
//
// Matches are ordered by document ID.
func (ix *Index) Search(query string) SearchResult {
	var result docSet
	started := false
	op := OpAnd

	for _, word := range strings.Fields(query) {
		switch lower := strings.ToLower(word); lower {
		case OpAnd, OpOr, OpNot:
			op = lower
			continue
		}

		for _, token := range Tokenize(word) {
			docs := ix.postings[Stem(token)]
			if !started {
				started = true
				if op == OpNot {
					result = difference(ix.all(), docs)
				} else {
					result = maps.Clone(docs)
				}
				continue
			}

			switch op {
			case OpAnd:
				result = intersection(result, docs)
			case OpOr:
				result = union(result, docs)
			case OpNot:
				result = difference(result, docs)
			}
		}
	}

	matches := make([]Match, 0, len(result))
	for _, id := range sortedIDs(result) {
		matches = append(matches, Match{ID: id, URL: ix.urls[id]})
	}
	return SearchResult{Query: query, Matches: matches}
}

// all returns the set of every indexed document.
func (ix *Index) all() docSet {
	set := make(docSet, len(ix.urls))
	for id := range ix.urls {
		set[id] = struct{}{}
	}
	return set
}

func intersection(a, b docSet) docSet {
	r := make(docSet)
	for id := range a {
		if _, ok := b[id]; ok {
			r[id] = struct{}{}
		}
	}
	return r
}

func union(a, b docSet) docSet {
	r := make(docSet, len(a)+len(b))
	maps.Copy(r, a)
	maps.Copy(r, b)
	return r
}

func difference(a, b docSet) docSet {
	r := make(docSet)
	for id := range a {
		if _, ok := b[id]; !ok {
			r[id] = struct{}{}
		}
	}
	return r
}
