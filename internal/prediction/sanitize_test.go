package prediction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 3.5, coerceFloat(3.5, 0))
	assert.Equal(t, 0.0, coerceFloat(math.NaN(), 0))
	assert.Equal(t, 1.0, coerceFloat(math.Inf(1), 1))
	assert.Equal(t, 1.0, coerceFloat(math.Inf(-1), 1))
}

func TestCoerceMinStock(t *testing.T) {
	assert.Equal(t, 8, coerceMinStock(8))
	assert.Equal(t, defaultMinStockAlert, coerceMinStock(0))
	assert.Equal(t, defaultMinStockAlert, coerceMinStock(-3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.4, clamp(0.1, 0.4, 0.8))
	assert.Equal(t, 0.8, clamp(2.0, 0.4, 0.8))
	assert.Equal(t, 0.6, clamp(0.6, 0.4, 0.8))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 3.14, roundTo(3.14159, 2))
	assert.Equal(t, 3.0, roundTo(3.14159, 0))
	assert.Equal(t, 1.3, roundTo(1.25, 1))
}
