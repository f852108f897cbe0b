package wire

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// LookupEncoding resolves an encoding label such as utf-8 or iso-8859-1.
// An empty label selects UTF-8 without byte order mark.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

func orDefault(enc encoding.Encoding) encoding.Encoding {
	if enc == nil {
		return unicode.UTF8
	}
	return enc
}
