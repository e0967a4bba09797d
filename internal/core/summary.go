package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthSummary is a compact per-direction summary for a year+month,
// feeding the dashboard endpoint.
type MonthSummary struct {
	Year               int
	Month              int // 1-12
	TotalIncome        Money
	TotalSpending      Money
	IncomeByCategory   []CategoryAmount
	SpendingByCategory []CategoryAmount
}

// Net returns income minus spending for the month.
func (s MonthSummary) Net() Money {
	return s.TotalIncome.Sub(s.TotalSpending)
}
