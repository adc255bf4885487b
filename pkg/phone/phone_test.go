package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already international", "254712345678", "254712345678"},
		{"local trunk prefix", "0712345678", "254712345678"},
		{"bare subscriber number", "712345678", "254712345678"},
		{"spaces and dashes", "0712-345 678", "254712345678"},
		{"plus prefix", "+254712345678", "254712345678"},
		{"too short", "12345", "12345"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeSameSubscriberNumber(t *testing.T) {
	// All three accepted shapes of one subscriber number canonicalize the same.
	want := "254798765432"
	for _, in := range []string{"254798765432", "0798765432", "798765432"} {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := Normalize("0712345678")
	assert.Equal(t, n, Normalize(n))
}

func TestIsValid(t *testing.T) {
	valid := []string{"254712345678", "0712345678", "712345678", "+254 712 345 678"}
	for _, in := range valid {
		assert.True(t, IsValid(in), "input %q", in)
	}
	invalid := []string{"", "12345678", "07123456", "255712345678", "2547123456789", "abc"}
	for _, in := range invalid {
		assert.False(t, IsValid(in), "input %q", in)
	}
}
