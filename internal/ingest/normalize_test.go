package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int64
	}{
		{"1000", int64p(1000)},
		{"1,000,000", int64p(1000000)},
		{" 42 ", int64p(42)},
		{"unknown", nil},
		{"Unknown", nil},
		{"n/a", nil},
		{"", nil},
		{"1 standard", nil},
	}
	for _, tt := range tests {
		got := parseInt(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "parseInt(%q)", tt.in)
		} else {
			require.NotNil(t, got, "parseInt(%q)", tt.in)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func TestParseFloat(t *testing.T) {
	got := parseFloat("34.37")
	require.NotNil(t, got)
	assert.Equal(t, 34.37, *got)

	got = parseFloat("1,600")
	require.NotNil(t, got)
	assert.Equal(t, 1600.0, *got)

	assert.Nil(t, parseFloat("unknown"))
	assert.Nil(t, parseFloat("indefinite"))
}

func TestParseDate(t *testing.T) {
	got := parseDate("1977-05-25")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, parseDate("unknown"))
	assert.Nil(t, parseDate("25/05/1977"))
}

func int64p(v int64) *int64 { return &v }
