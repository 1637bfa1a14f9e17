package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
		{input: "yes", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out, "Overwrite? ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Overwrite? ", out.String())
		})
	}
}

func TestRpad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab   ", rpad("ab", 5))
	assert.Equal(t, "abcdef", rpad("abcdef", 3))
	assert.Equal(t, "a\nb", trimTrailingWhitespaces("a  \nb\t"))
}
