package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in, out float64
	}{
		{1.005, 1.01},
		{89.6883, 89.69},
		{-2.345, -2.35},
		{10, 10},
		{0.1 + 0.2, 0.3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 1.61, Percent(-160.89, 1))
	assert.Equal(t, 50.0, Percent(5000, 1))
	assert.Equal(t, 0.0, Percent(0, 1))
}
