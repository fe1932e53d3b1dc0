package ingest

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that a leading byte order mark is consumed and
// the stream is valid UTF-8. A UTF-16 BOM switches decoding to UTF-16, which
// covers spreadsheet "Unicode text" exports. Ill-formed bytes become U+FFFD.
func NewTextReader(r io.Reader) io.Reader {
	t := transform.Chain(unicode.BOMOverride(transform.Nop), runes.ReplaceIllFormed())
	return transform.NewReader(r, t)
}
