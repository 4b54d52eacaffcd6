package analytics

// TrendSeries is an ordered sequence of snapshots over a contiguous
// calendar range. Insertion order is chronological; the series is
// request-scoped and never cached between aggregation calls.
type TrendSeries struct {
	Snapshots []Snapshot `json:"snapshots"`

	index map[Period]int
}

func newTrendSeries(snapshots []Snapshot) *TrendSeries {
	series := &TrendSeries{
		Snapshots: snapshots,
		index:     make(map[Period]int, len(snapshots)),
	}
	for i := range snapshots {
		series.index[snapshots[i].Period] = i
		if i == 0 {
			continue
		}
		prev := &snapshots[i-1]
		cur := &snapshots[i]
		cur.Growth = GrowthRates{
			Income:        growthRate(cur.IncomeTotal, prev.IncomeTotal),
			Expenses:      growthRate(cur.ExpenseTotal, prev.ExpenseTotal),
			Investments:   growthRate(cur.InvestmentTotal, prev.InvestmentTotal),
			BudgetBalance: growthRate(cur.BudgetBalance, prev.BudgetBalance),
		}
	}
	return series
}

// At returns the snapshot for a period, or nil when the period is
// outside the aggregated range.
func (s *TrendSeries) At(p Period) *Snapshot {
	i, ok := s.index[p]
	if !ok {
		return nil
	}
	return &s.Snapshots[i]
}

// YearOverYear returns the snapshot for the same calendar month of the
// preceding year. nil when that month was not part of the requested
// range: absence of data must never silently become zero.
func (s *TrendSeries) YearOverYear(p Period) *Snapshot {
	return s.At(p.PriorYear())
}

// YearSummary aggregates the months of one year that fall inside the
// series range. MonthsInRange tells consumers whether the totals cover
// a full or partial year.
type YearSummary struct {
	Year int `json:"year"`

	IncomeTotal     float64 `json:"income_total"`
	ExpenseTotal    float64 `json:"expense_total"`
	InvestmentTotal float64 `json:"investment_total"`
	BudgetBalance   float64 `json:"budget_balance"`

	// MonthsInRange is how many calendar months of the year the series
	// covers; MonthsWithData is how many of those had actual records.
	MonthsInRange  int `json:"months_in_range"`
	MonthsWithData int `json:"months_with_data"`

	AvgMonthlyIncome      float64 `json:"avg_monthly_income"`
	AvgMonthlyExpenses    float64 `json:"avg_monthly_expenses"`
	AvgMonthlyInvestments float64 `json:"avg_monthly_investments"`
	AvgMonthlyBalance     float64 `json:"avg_monthly_balance"`
}

// Summarize rolls the year's in-range snapshots into a single summary.
func (s *TrendSeries) Summarize(year int) YearSummary {
	summary := YearSummary{Year: year}
	for i := range s.Snapshots {
		snapshot := &s.Snapshots[i]
		if snapshot.Period.Year != year {
			continue
		}
		summary.MonthsInRange++
		if snapshot.HasEntry {
			summary.MonthsWithData++
		}
		summary.IncomeTotal += snapshot.IncomeTotal
		summary.ExpenseTotal += snapshot.ExpenseTotal
		summary.InvestmentTotal += snapshot.InvestmentTotal
		summary.BudgetBalance += snapshot.BudgetBalance
	}

	months := summary.MonthsInRange
	if months < 1 {
		months = 1
	}
	summary.AvgMonthlyIncome = summary.IncomeTotal / float64(months)
	summary.AvgMonthlyExpenses = summary.ExpenseTotal / float64(months)
	summary.AvgMonthlyInvestments = summary.InvestmentTotal / float64(months)
	summary.AvgMonthlyBalance = summary.BudgetBalance / float64(months)
	return summary
}
