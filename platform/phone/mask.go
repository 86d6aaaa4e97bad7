package phone

import "strings"

// Placeholder marks a digit position inside a mask template.
const Placeholder = 'X'

// Canonicalize strips every character that is not a decimal digit.
// The result is the only form of a number that is ever stored.
func Canonicalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if isDigit(raw[i]) {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// DeriveMask returns the formatting template of raw: literal placeholders are
// dropped first, then every digit becomes a placeholder. Punctuation and
// spacing stay where they were.
//
//	DeriveMask("+1(876)543-21-00") == "+X(XXX)XXX-XX-XX"
func DeriveMask(raw string) string {
	cleaned := strings.ReplaceAll(raw, string(Placeholder), "")

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			b.WriteRune(Placeholder)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Format rebuilds the display form of a stored number from its mask.
// When there is no mask, or the mask's placeholder count does not match the
// number of digits, the canonical number is returned unchanged.
func Format(canonical, mask string) string {
	if mask == "" {
		return canonical
	}
	if strings.Count(mask, string(Placeholder)) != len(canonical) {
		return canonical
	}

	var b strings.Builder
	b.Grow(len(mask))
	next := 0
	for _, r := range mask {
		if r == Placeholder {
			b.WriteByte(canonical[next])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
