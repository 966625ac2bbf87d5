package main

import (
	"flag"
	"fmt"

	"github.com/nwgo/networth-calculator/internal/calculation"
	"github.com/shopspring/decimal"
)

// Prints a year-by-year amortization schedule for quick sanity checks
// against an online mortgage calculator.
func main() {
	balance := flag.Float64("balance", 500000, "starting mortgage balance")
	rate := flag.Float64("rate", 0.045, "annual interest rate")
	years := flag.Int("years", 30, "remaining term in years")
	interestOnly := flag.Bool("interest-only", false, "interest-only loan")
	flag.Parse()

	b := decimal.NewFromFloat(*balance)
	r := decimal.NewFromFloat(*rate)

	fmt.Printf("%-6s %14s %14s %14s\n", "Year", "Interest", "Principal", "Balance")
	for y := 1; y <= *years; y++ {
		year := calculation.AmortizeYear(b, r, *years-y+1, *interestOnly)
		fmt.Printf("%-6d %14s %14s %14s\n", y,
			year.InterestPaid.StringFixed(2),
			year.PrincipalPaid.StringFixed(2),
			year.EndingBalance.StringFixed(2))
		b = year.EndingBalance
		if b.IsZero() {
			break
		}
	}
}
