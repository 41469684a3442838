package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 25.0, Percentage(3, 12))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(7, 7))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, 0.0, Trend(10, 0))
	assert.Equal(t, 0.0, Trend(0, 0))
	assert.Equal(t, 50.0, Trend(150, 100))
	assert.Equal(t, -50.0, Trend(50, 100))
	assert.Equal(t, 33.33, Trend(4, 3))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, -1.24, Round2(-1.2351))
}
