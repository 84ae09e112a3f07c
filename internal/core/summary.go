package core

import "math"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryBreakdown is the per-category spending total for a specific
// year+month, in the order categories should be drawn.
type CategoryBreakdown struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// ShareValue pairs a category with its percentage of the breakdown total.
type ShareValue struct {
	Name        string
	AmountCents int64
	Percent     float64 // 0-100, two decimal places
}

// Shares converts the breakdown's amounts into percentage shares of the
// total, preserving category order. Percentages are rounded to two
// decimal places, so the shares may sum to slightly less or more than
// 100; downstream chart rendering passes that through unchanged rather
// than renormalizing. A zero total yields no shares.
func (b CategoryBreakdown) Shares() []ShareValue {
	if b.Total.Cents <= 0 || len(b.ByCategory) == 0 {
		return nil
	}
	out := make([]ShareValue, 0, len(b.ByCategory))
	for _, c := range b.ByCategory {
		pct := float64(c.Amount.Cents) / float64(b.Total.Cents) * 100
		out = append(out, ShareValue{
			Name:        c.Name,
			AmountCents: c.Amount.Cents,
			Percent:     math.Round(pct*100) / 100,
		})
	}
	return out
}
