package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxFoldPasses bounds the NFKC fixpoint loop. Real text settles after one
// extra pass; the bound only guards pathological input.
const maxFoldPasses = 4

// Normalizer canonicalizes text fragments. The zero value applies the plain
// pipeline; FoldWidth additionally applies NFKC so full-width punctuation
// and digits compare equal to their half-width forms.
type Normalizer struct {
	FoldWidth bool
}

// Normalize applies the default pipeline without width folding.
func Normalize(text string) string {
	return Normalizer{}.Normalize(text)
}

// NormalizeValue normalizes strings and passes every other value through
// unchanged.
func NormalizeValue(value any) any {
	if s, ok := value.(string); ok {
		return Normalize(s)
	}
	return value
}

// Normalize converts line breaks to spaces, drops non-printable runes,
// collapses whitespace runs, and trims the result.
func (n Normalizer) Normalize(text string) string {
	out := clean(text)
	if !n.FoldWidth {
		return out
	}
	for i := 0; i < maxFoldPasses; i++ {
		folded := clean(norm.NFKC.String(out))
		if folded == out {
			break
		}
		out = folded
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func clean(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if isLineBreak(r) {
			r = ' '
		}
		if !unicode.IsPrint(r) {
			continue
		}
		if r == ' ' {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Reverse returns text with its runes in reverse order.
func Reverse(text string) string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
