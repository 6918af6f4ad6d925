package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		from  string
		to    string
		want  float64
	}{
		{"kg to g", 1, "kg", "g", 1000},
		{"g to kg", 250, "g", "kg", 0.25},
		{"l to ml", 0.5, "l", "ml", 500},
		{"cm to mm", 3, "cm", "mm", 30},
		{"fl oz to ml", 2, "fl oz", "ml", 59.147},
		{"gb to kb", 1, "gb", "kb", 1024},
		{"case insensitive", 1, "KG", "G", 1000},
		{"identity", 42, "ml", "ml", 42},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Convert(tt.value, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Convert(1, "stone", "g")
	require.ErrorIs(t, err, ErrUnsupportedUnit)

	_, err = Convert(1, "g", "parsec")
	require.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestIsUnit(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUnit("ml"))
	assert.True(t, IsUnit("ML"))
	assert.False(t, IsUnit("xx"))
}
