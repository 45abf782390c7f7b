package loyalty

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0412 345 678", "0412345678"},
		{"(04) 1234-5678", "0412345678"},
		{"+61 412 345 678", "61412345678"},
		{"０４１２３４５６７８", "0412345678"}, // full-width digits
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "NormalizePhone(%q)", tt.in)
	}
}

func TestDeriveCode_KnownValues(t *testing.T) {
	tests := map[string]string{
		"0412345678": "209254",
		"0400000000": "151500",
		"0411222333": "117447",
		"12":         "001569",
		"1":          "000049",
		"":           "000000",
	}
	for phone, want := range tests {
		assert.Equal(t, want, DeriveCode(phone), "DeriveCode(%q)", phone)
	}
}

func TestDeriveCode_AlwaysSixDigitsAndDeterministic(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)
	phones := []string{"0", "9", "0412345678", "61412345678", "99999999999999999999", "0000000000"}

	for _, p := range phones {
		code := DeriveCode(p)
		assert.Regexp(t, sixDigits, code, "DeriveCode(%q)", p)
		assert.Equal(t, code, DeriveCode(p), "DeriveCode(%q) not deterministic", p)
	}
}
