package textutil

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// polishReplacements maps the Polish diacritic letters to their ASCII base.
var polishReplacements = map[rune]rune{
	'Ą': 'A', 'Ć': 'C', 'Ę': 'E', 'Ł': 'L', 'Ń': 'N',
	'Ó': 'O', 'Ś': 'S', 'Ź': 'Z', 'Ż': 'Z',
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n',
	'ó': 'o', 'ś': 's', 'ź': 'z', 'ż': 'z',
}

// Name is the result of normalizing a filename.
type Name struct {
	// Full is the normalized stem joined with the original extension.
	Full string
	// Stem is the normalized stem.
	Stem string
	// Ext is the original extension without the leading dot, case preserved.
	Ext string
}

// Normalizer converts filenames into their safe form. The zero value applies
// the Polish transliteration table only; ASCIIOnly additionally transliterates
// any other non-ASCII letter or digit.
type Normalizer struct {
	ASCIIOnly bool
}

// NormalizeName normalizes name with the default Normalizer.
func NormalizeName(name string) Name {
	return Normalizer{}.Normalize(name)
}

// Normalize returns the normalized form of name. Only the stem is rewritten.
func (n Normalizer) Normalize(name string) Name {
	stem, ext := SplitExt(name)
	stem = norm.NFC.String(stem)

	var b strings.Builder
	b.Grow(len(stem))
	for _, r := range stem {
		if repl, ok := polishReplacements[r]; ok {
			b.WriteRune(repl)
			continue
		}
		if !isWordRune(r) {
			b.WriteByte('_')
			continue
		}
		if n.ASCIIOnly && r > unicode.MaxASCII {
			writeASCII(&b, r)
			continue
		}
		b.WriteRune(r)
	}

	out := Name{Stem: b.String(), Ext: ext}
	out.Full = out.Stem
	if ext != "" {
		out.Full += "." + ext
	}
	return out
}

// SplitExt splits name at its last dot. A name whose only dots are leading
// (".profile") has no extension.
func SplitExt(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return name, ""
	}
	if strings.Trim(name[:idx], ".") == "" {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	_, ext := SplitExt(name)
	return strings.ToLower(ext)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func writeASCII(b *strings.Builder, r rune) {
	translit := unidecode.Unidecode(string(r))
	if translit == "" {
		b.WriteByte('_')
		return
	}
	for i := 0; i < len(translit); i++ {
		c := translit[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
}
