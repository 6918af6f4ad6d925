package tokenset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Nivea Body Lotion 400ml",
		"  leading space",
		"trailing space  ",
		"4 x 50ml = 200ml",
		"Gel-Polish (new!) 10.5 ml",
		"price: £2.50",
		"",
		"   ",
	}

	for _, in := range inputs {
		set := Split(in)
		assert.Equal(t, in, strings.Join(set.Raw, ""), "input %q", in)
		assert.Len(t, set.Normalized, set.Len())
	}
}

func TestSplitTokenClasses(t *testing.T) {
	t.Parallel()

	set := Split("Shea Butter 250.0ml x2!")
	require.Equal(t, []string{"shea", "butter", "250", "ml", "x", "2", "!"}, set.Normalized)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"integer unchanged", "10", "10"},
		{"trailing zero stripped", "10.0", "10"},
		{"decimal kept", "10.50", "10.5"},
		{"word lowercased", "Butter ", "butter"},
		{"symbol trimmed", "& ", "&"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.token))
		})
	}
}

func TestIsInteger(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInteger("42"))
	assert.False(t, IsInteger("4.2"))
	assert.False(t, IsInteger("4x"))
	assert.False(t, IsInteger(""))
}

func TestContainsDigit(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsDigit("mk2"))
	assert.False(t, ContainsDigit("mk"))
}
