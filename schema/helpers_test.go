package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFDRLabel(t *testing.T) {
	tests := []struct {
		fdr  int
		want string
	}{
		{1, "Very Easy"},
		{2, "Easy"},
		{3, "Medium"},
		{4, "Hard"},
		{5, "Very Hard"},
		{0, "Unknown"},  // no data
		{6, "Unknown"},  // above range
		{-1, "Unknown"}, // below range
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FDRLabel(tt.fdr), "FDRLabel(%d)", tt.fdr)
	}
}

func TestFDRColorClass(t *testing.T) {
	tests := []struct {
		fdr  int
		want string
	}{
		{1, "fdr-very-easy"},
		{2, "fdr-easy"},
		{3, "fdr-medium"},
		{4, "fdr-hard"},
		{5, "fdr-very-hard"},
		{0, "fdr-unknown"},
		{42, "fdr-unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FDRColorClass(tt.fdr), "FDRColorClass(%d)", tt.fdr)
	}
}

func TestRoundFDR(t *testing.T) {
	assert.Equal(t, 0, RoundFDR(0))
	assert.Equal(t, 3, RoundFDR(3.0))
	assert.Equal(t, 3, RoundFDR(2.6))
	assert.Equal(t, 2, RoundFDR(2.4))
	assert.Equal(t, 5, RoundFDR(4.5))
	assert.Equal(t, "Unknown", FDRLabel(RoundFDR(0)), "zero average should render as Unknown")
}

func TestIsValidHorizon(t *testing.T) {
	for _, h := range []int{3, 5, 8, 10} {
		assert.True(t, IsValidHorizon(h), "horizon %d should be valid", h)
	}
	for _, h := range []int{0, -3, 1, 4, 38} {
		assert.False(t, IsValidHorizon(h), "horizon %d should be invalid", h)
	}
}
