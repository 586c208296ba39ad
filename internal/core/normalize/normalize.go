// Package normalize prepares user-typed filter values for use as query arguments
// Pipeline order
// 1 Sanitize drop controls and invalid UTF-8
// 2 Remove format characters such as zero-width joiners
// 3 Unicode NFC so composed and decomposed input match the same rows
//
// Stored trees keep the values exactly as typed; only query arguments are normalized
package normalize

import (
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			norm.NFC,
		)
	},
}

// Value returns the normalized form of s following the pipeline described above
func Value(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return norm.NFC.String(s)
	}
	return out
}
