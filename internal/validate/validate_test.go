package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":             true,
		"john.doe@mail.co.uk": true,
		"bad":                 false,
		"a@b":                 false,
		"@b.com":              false,
		"a b@c.com":           false,
		"a@b .com":            false,
		"a@@b.com":            false,
		"":                    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidateEmail(in), "ValidateEmail(%q)", in)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := map[string]bool{
		"abcd":     false,
		"Abc1":     true,
		"Ab1":      false,
		"ABCD":     false,
		"1234":     false,
		"abc1":     false,
		"ABC1":     true,
		"longer9X": true,
		"":         false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidatePassword(in), "ValidatePassword(%q)", in)
	}
}
