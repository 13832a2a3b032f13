// Package textutil provides filename normalization for the cleanup stages.
//
// NormalizeName splits a filename into stem and extension, transliterates the
// Polish diacritic set to ASCII, and replaces every other non-word rune in the
// stem with an underscore. The extension is preserved verbatim. The function is
// pure and idempotent: normalizing an already-normalized name returns it
// unchanged.
//
// Decomposed input (as produced by some filesystems) is composed to NFC before
// transliteration so "e" followed by a combining ogonek behaves like "ę".
package textutil
