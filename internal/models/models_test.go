package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationLegends(t *testing.T) {
	legends := ObservationLegends()
	require.Len(t, legends, 8)
	for i, l := range legends {
		assert.Equal(t, ObservationCode(string(rune('1'+i))), l.Code)
		assert.Equal(t, l.Code.Description(), l.Description)
		assert.NotEmpty(t, l.Description)
	}
	assert.Equal(t, "Ovitrampa seca", ObsSeca.Description())
	assert.Empty(t, ObservationCode("9").Description())
	assert.False(t, ObservationCode("0").Valid())
}

func TestParseDateIn(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	tests := []struct {
		in   string
		loc  *time.Location
		want time.Time
	}{
		{"2024-03-15", nil, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15", brt, time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)},
		{"2024-03-15T22:00", brt, time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)},
		// fuso explícito prevalece sobre loc
		{"2024-03-15T22:00:00-03:00", time.UTC, time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDateIn(tt.in, tt.loc)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "%s: %s", tt.in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, err := ParseDateIn("15/03/2024", brt)
	assert.Error(t, err)
}
