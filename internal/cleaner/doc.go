// Package cleaner turns stored raw HTML into plain text.
//
// ExtractText converts one document. Pass rebuilds the whole cleaned
// collection from the raw collection and reports size statistics.
package cleaner
