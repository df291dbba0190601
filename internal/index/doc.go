// Package index builds an in-memory inverted index over the cleaned
// collection and answers boolean queries against it.
//
// Text is split into lower-case runs of Russian letters by Tokenize and
// reduced to a crude stem by Stem. The same two steps are applied to
// queries, so a query word matches every inflection that shares its stem.
package index
