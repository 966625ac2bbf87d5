package calculation

import (
	"testing"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxableSocialSecurity(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.FilingStatus
		benefit     decimal.Decimal
		otherIncome decimal.Decimal
		expected    decimal.Decimal
	}{
		{
			name:        "Below first threshold is untaxed",
			status:      domain.FilingMarriedJointly,
			benefit:     decimal.NewFromInt(10000),
			otherIncome: decimal.NewFromInt(25000), // combined 30000 <= 32000
			expected:    decimal.Zero,
		},
		{
			name:        "Between thresholds taxes half the excess",
			status:      domain.FilingMarriedJointly,
			benefit:     decimal.NewFromInt(10000),
			otherIncome: decimal.NewFromInt(30000), // combined 35000; (35000-32000)*0.5
			expected:    decimal.NewFromInt(1500),
		},
		{
			name:        "Above second threshold caps at 85 percent",
			status:      domain.FilingMarriedJointly,
			benefit:     decimal.NewFromInt(20000),
			otherIncome: decimal.NewFromInt(50000), // combined 60000; formula gives 19600, cap 17000
			expected:    decimal.NewFromInt(17000),
		},
		{
			name:        "Single uses lower thresholds",
			status:      domain.FilingSingle,
			benefit:     decimal.NewFromInt(10000),
			otherIncome: decimal.NewFromInt(25000), // combined 30000; (30000-25000)*0.5
			expected:    decimal.NewFromInt(2500),
		},
		{
			name:        "Head of household matches single thresholds",
			status:      domain.FilingHeadOfHousehold,
			benefit:     decimal.NewFromInt(10000),
			otherIncome: decimal.NewFromInt(25000),
			expected:    decimal.NewFromInt(2500),
		},
		{
			name:     "Married filing separately taxes 85 percent regardless",
			status:   domain.FilingMarriedSeparately,
			benefit:  decimal.NewFromInt(10000),
			expected: decimal.NewFromInt(8500),
		},
		{
			name:     "Zero benefit",
			status:   domain.FilingMarriedJointly,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaxableSocialSecurity(tt.benefit, tt.otherIncome, tt.status)
			assert.True(t, got.Equal(tt.expected),
				"expected %s, got %s", tt.expected.String(), got.String())
		})
	}
}

func TestTaxableSocialSecurityNeverExceedsCap(t *testing.T) {
	benefit := decimal.NewFromInt(30000)
	cap := benefit.Mul(decimal.NewFromFloat(0.85))

	for other := int64(0); other <= 500000; other += 12500 {
		got := TaxableSocialSecurity(benefit, decimal.NewFromInt(other), domain.FilingMarriedJointly)
		assert.True(t, got.LessThanOrEqual(cap),
			"taxable %s exceeds 85%% cap at other income %d", got.String(), other)
		assert.True(t, got.GreaterThanOrEqual(decimal.Zero))
	}
}

func TestCombinedIncome(t *testing.T) {
	got := CombinedIncome(decimal.NewFromInt(40000), decimal.NewFromInt(20000))
	assert.True(t, got.Equal(decimal.NewFromInt(50000))) // 40000 + 20000/2
}
