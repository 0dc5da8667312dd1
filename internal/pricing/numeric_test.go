package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tilbury/quoteworks/internal/pricing"
)

func Test_PercentOf(t *testing.T) {
	assert.InDelta(t, 25.5, pricing.PercentOf(255, 10), 1e-9)
	assert.Equal(t, 0.0, pricing.PercentOf(100, 0))
	assert.InDelta(t, -10, pricing.PercentOf(100, -10), 1e-9)
}

func Test_CapAt(t *testing.T) {
	assert.Equal(t, 50.0, pricing.CapAt(100, 50))
	assert.Equal(t, 30.0, pricing.CapAt(30, 50))
}

func Test_FloorAt(t *testing.T) {
	assert.Equal(t, 2.0, pricing.FloorAt(1, 2))
	assert.Equal(t, 3.0, pricing.FloorAt(3, 2))
}

func Test_SumBy(t *testing.T) {
	type line struct{ total float64 }
	lines := []line{{1.5}, {2.5}, {4}}
	assert.InDelta(t, 8, pricing.SumBy(lines, func(l line) float64 { return l.total }), 1e-9)
	assert.Equal(t, 0.0, pricing.SumBy(nil, func(l line) float64 { return l.total }))
}
