package cdecl

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeIdent normalizes a binary-model-derived name (symbol names lifted
// from a decompiled binary may carry combining marks or inconsistent
// Unicode forms from the original toolchain's mangling) into a valid C
// identifier: NFC-normalized first, so that visually identical names
// collapse to one encoding, then mapped character-by-character: letters,
// digits (Unicode ones included) and '_' are kept, every other character
// becomes '_', and a leading digit is escaped by an underscore prefix.
func SanitizeIdent(name string) string {
	name = norm.NFC.String(name)

	var sb strings.Builder
	sb.Grow(len(name))
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}

	out := sb.String()
	if out == "" {
		return "_"
	}
	return out
}
