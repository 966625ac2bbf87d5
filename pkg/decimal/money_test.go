package decimal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Cents only", 0.5, "$0.50"},
		{"No separator needed", 999.99, "$999.99"},
		{"One separator", 1000, "$1,000.00"},
		{"Millions", 1234567.89, "$1,234,567.89"},
		{"Negative", -0.5, "-$0.50"},
		{"Negative thousands", -42000, "-$42,000.00"},
		{"Rounds to cents", 10.005, "$10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewMoney(tt.value).String())
		})
	}
}

func TestMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56")
	assert.NoError(t, err)
	assert.Equal(t, "$1,234.56", m.String())

	_, err = NewMoneyFromString("not money")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(100.25)
	b := NewMoney(0.75)

	assert.Equal(t, "$101.00", a.Add(b).String())
	assert.Equal(t, "$99.50", a.Sub(b).String())
}

func TestMoneyRound(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(10.12345)).Round()
	assert.True(t, m.Decimal.Equal(decimal.NewFromFloat(10.12)))
}
