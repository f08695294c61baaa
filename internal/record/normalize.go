package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and applies NFC normalization.
// Every name used as a record key passes through here, so a composed and a
// decomposed spelling of the same name map to one key.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
