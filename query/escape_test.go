package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeQueryString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "pyramidal cells", want: "pyramidal cells"},
		{name: "plus escaped", input: "a+b", want: `a\+b`},
		{name: "angle brackets stripped", input: "x>y<z", want: "xyz"},
		{name: "boolean operators escaped", input: "a && b || c", want: `a \&& b \|| c`},
		{name: "brackets and wildcards", input: `gene[1]*?`, want: `gene\[1\]\*\?`},
		{name: "colon slash quote", input: `ratio:1/2 "exact"`, want: `ratio\:1\/2 \"exact\"`},
		{name: "hyphenated term", input: "long-term", want: `long\-term`},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeQueryString(tt.input))
		})
	}
}
