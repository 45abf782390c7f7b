package loyalty

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// CodeLength is the number of digits in a derived customer code.
const CodeLength = 6

// NormalizePhone reduces a phone entry to its ASCII digits.
// Input is NFKC-folded first so full-width digits typed on some keyboards
// count as digits; every other character is dropped.
func NormalizePhone(raw string) string {
	folded := norm.NFKC.String(raw)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeText trims and NFC-normalizes free text (names, titles) so the
// same visible string always compares and serializes the same way.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// DeriveCode computes the in-store display code for a phone number.
//
// It is a 32-bit wrapping polynomial hash (h = h*31 + c over UTF-16 code
// units), taken as an absolute value in 64 bits, printed in decimal, cut to
// the first six digits and left-padded with zeros. It is a pure function of
// its input and not a credential; distinct phones may share a code.
func DeriveCode(phone string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(phone)) {
		h = h<<5 - h + int32(unit)
	}

	n := int64(h)
	if n < 0 {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	if len(digits) > CodeLength {
		digits = digits[:CodeLength]
	}
	return strings.Repeat("0", CodeLength-len(digits)) + digits
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
