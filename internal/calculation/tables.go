package calculation

import (
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// BUILT-IN TAX TABLE ASSUMPTIONS:
//
// 1. Federal ordinary brackets and standard deductions approximate tax year
//    2024 for all four filing statuses. Thresholds and deductions index to
//    later projection years per the scenario's indexing policy; lookups for
//    years beyond the configured set fall back to the latest configured year.
//
// 2. The federal long-term capital gains schedule is evaluated as a separate
//    stack from ordinary income. Real LTCG brackets stack on top of taxable
//    ordinary income; treating them independently gives directionally correct
//    numbers and is a deliberate simplification.
//
// 3. The only built-in state is California, which taxes capital gains as
//    ordinary income. Any other state requires a custom table.

const jurisdictionFederal = "FED"
const defaultState = "CA"

// builtinBaseYear is the tax year the built-in tables describe.
const builtinBaseYear = 2024

func bracketTo(upTo int64, rate float64) domain.TaxBracket {
	limit := decimal.NewFromInt(upTo)
	return domain.TaxBracket{UpTo: &limit, Rate: decimal.NewFromFloat(rate)}
}

func topBracket(rate float64) domain.TaxBracket {
	return domain.TaxBracket{UpTo: nil, Rate: decimal.NewFromFloat(rate)}
}

// federalOrdinaryTables approximates the 2024 federal schedule.
var federalOrdinaryTables = map[int]map[domain.FilingStatus]domain.TaxTable{
	2024: {
		domain.FilingMarriedJointly: {
			StandardDeduction: decimal.NewFromInt(29200),
			Brackets: []domain.TaxBracket{
				bracketTo(23200, 0.10),
				bracketTo(94300, 0.12),
				bracketTo(201050, 0.22),
				bracketTo(383900, 0.24),
				bracketTo(487450, 0.32),
				bracketTo(731200, 0.35),
				topBracket(0.37),
			},
		},
		domain.FilingSingle: {
			StandardDeduction: decimal.NewFromInt(14600),
			Brackets: []domain.TaxBracket{
				bracketTo(11600, 0.10),
				bracketTo(47150, 0.12),
				bracketTo(100525, 0.22),
				bracketTo(191950, 0.24),
				bracketTo(243725, 0.32),
				bracketTo(609350, 0.35),
				topBracket(0.37),
			},
		},
		domain.FilingMarriedSeparately: {
			StandardDeduction: decimal.NewFromInt(14600),
			Brackets: []domain.TaxBracket{
				bracketTo(11600, 0.10),
				bracketTo(47150, 0.12),
				bracketTo(100525, 0.22),
				bracketTo(191950, 0.24),
				bracketTo(243725, 0.32),
				bracketTo(365600, 0.35),
				topBracket(0.37),
			},
		},
		domain.FilingHeadOfHousehold: {
			StandardDeduction: decimal.NewFromInt(21900),
			Brackets: []domain.TaxBracket{
				bracketTo(16550, 0.10),
				bracketTo(63100, 0.12),
				bracketTo(100500, 0.22),
				bracketTo(191950, 0.24),
				bracketTo(243700, 0.32),
				bracketTo(609350, 0.35),
				topBracket(0.37),
			},
		},
	},
}

// federalGainsTables approximates the 2024 LTCG/qualified-dividend schedule.
// The standard deduction is zero here; it is shared with the ordinary
// schedule and must not be double counted.
var federalGainsTables = map[int]map[domain.FilingStatus]domain.TaxTable{
	2024: {
		domain.FilingMarriedJointly: {
			StandardDeduction: decimal.Zero,
			Brackets: []domain.TaxBracket{
				bracketTo(94050, 0.00),
				bracketTo(583750, 0.15),
				topBracket(0.20),
			},
		},
		domain.FilingSingle: {
			StandardDeduction: decimal.Zero,
			Brackets: []domain.TaxBracket{
				bracketTo(47025, 0.00),
				bracketTo(518900, 0.15),
				topBracket(0.20),
			},
		},
		domain.FilingMarriedSeparately: {
			StandardDeduction: decimal.Zero,
			Brackets: []domain.TaxBracket{
				bracketTo(47025, 0.00),
				bracketTo(291850, 0.15),
				topBracket(0.20),
			},
		},
		domain.FilingHeadOfHousehold: {
			StandardDeduction: decimal.Zero,
			Brackets: []domain.TaxBracket{
				bracketTo(63100, 0.00),
				bracketTo(551350, 0.15),
				topBracket(0.20),
			},
		},
	},
}

// stateCATables approximates the California schedule. The 1% mental-health
// surcharge above $1M is folded into the top brackets.
var stateCATables = map[int]map[domain.FilingStatus]domain.TaxTable{
	2024: {
		domain.FilingMarriedJointly: {
			StandardDeduction: decimal.NewFromInt(10726),
			Brackets: []domain.TaxBracket{
				bracketTo(20824, 0.01),
				bracketTo(49368, 0.02),
				bracketTo(77918, 0.04),
				bracketTo(108162, 0.06),
				bracketTo(136692, 0.08),
				bracketTo(698272, 0.093),
				bracketTo(837922, 0.103),
				bracketTo(1396542, 0.113),
				topBracket(0.123),
			},
		},
		domain.FilingSingle: {
			StandardDeduction: decimal.NewFromInt(5363),
			Brackets: []domain.TaxBracket{
				bracketTo(10412, 0.01),
				bracketTo(24684, 0.02),
				bracketTo(38959, 0.04),
				bracketTo(54081, 0.06),
				bracketTo(68346, 0.08),
				bracketTo(349136, 0.093),
				bracketTo(418961, 0.103),
				bracketTo(698271, 0.113),
				topBracket(0.123),
			},
		},
		domain.FilingMarriedSeparately: {
			StandardDeduction: decimal.NewFromInt(5363),
			Brackets: []domain.TaxBracket{
				bracketTo(10412, 0.01),
				bracketTo(24684, 0.02),
				bracketTo(38959, 0.04),
				bracketTo(54081, 0.06),
				bracketTo(68346, 0.08),
				bracketTo(349136, 0.093),
				bracketTo(418961, 0.103),
				bracketTo(698271, 0.113),
				topBracket(0.123),
			},
		},
		domain.FilingHeadOfHousehold: {
			StandardDeduction: decimal.NewFromInt(10726),
			Brackets: []domain.TaxBracket{
				bracketTo(20824, 0.01),
				bracketTo(49368, 0.02),
				bracketTo(77918, 0.04),
				bracketTo(108162, 0.06),
				bracketTo(136692, 0.08),
				bracketTo(698272, 0.093),
				bracketTo(837922, 0.103),
				bracketTo(1396542, 0.113),
				topBracket(0.123),
			},
		},
	},
}

// lookupTable finds the table for a year and filing status. An unknown year
// falls back to the latest configured year; an unknown filing status is a
// configuration error.
func lookupTable(tables map[int]map[domain.FilingStatus]domain.TaxTable, year int, status domain.FilingStatus) (domain.TaxTable, error) {
	if len(tables) == 0 {
		return domain.TaxTable{}, fmt.Errorf("no tax tables configured")
	}

	targetYear := year
	if _, ok := tables[targetYear]; !ok {
		targetYear = 0
		for y := range tables {
			if y > targetYear {
				targetYear = y
			}
		}
	}

	table, ok := tables[targetYear][status]
	if !ok {
		return domain.TaxTable{}, fmt.Errorf("filing status %q not found in tax tables for year %d", status, targetYear)
	}
	return table, nil
}

// FederalOrdinaryTable returns the built-in federal ordinary-income table.
func FederalOrdinaryTable(year int, status domain.FilingStatus) (domain.TaxTable, error) {
	return lookupTable(federalOrdinaryTables, year, status)
}

// FederalGainsTable returns the built-in LTCG/qualified-dividend table.
func FederalGainsTable(year int, status domain.FilingStatus) (domain.TaxTable, error) {
	return lookupTable(federalGainsTables, year, status)
}

// StateTable returns the built-in state table. Only California is
// configured; any other state must supply a custom table.
func StateTable(state string, year int, status domain.FilingStatus) (domain.TaxTable, error) {
	if state != defaultState {
		return domain.TaxTable{}, fmt.Errorf("state %q not supported without a custom tax table; only %q is built in", state, defaultState)
	}
	return lookupTable(stateCATables, year, status)
}
