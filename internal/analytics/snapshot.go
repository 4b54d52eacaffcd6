package analytics

import "github.com/veerababu-g/budget-planner/internal/budget"

// Instrument is one of the four tracked investment vehicles.
type Instrument string

const (
	InstrumentSIP Instrument = "sip"
	InstrumentFD1 Instrument = "fixed_deposit_one"
	InstrumentFD2 Instrument = "fixed_deposit_two"
	InstrumentETF Instrument = "etf"
)

// Instruments lists the four vehicles in display order. Breakdown maps
// always carry exactly these keys so chart consumers never null-check.
var Instruments = []Instrument{InstrumentSIP, InstrumentFD1, InstrumentFD2, InstrumentETF}

// Snapshot is the canonical per-month aggregate. One exists for every
// month of a requested range, even when the underlying data is absent;
// a gap month carries all-zero totals and nil percentages.
//
// Percentage fields are *float64: nil means "undefined" (zero
// denominator), which is a valid business state distinct from 0.
type Snapshot struct {
	Period Period `json:"period"`

	IncomeTotal     float64 `json:"income_total"`
	ExpenseTotal    float64 `json:"expense_total"`
	InvestmentTotal float64 `json:"investment_total"`
	// BudgetBalance = income - expenses - investments. Negative is
	// valid: it means the month overspent.
	BudgetBalance float64 `json:"budget_balance"`

	InvestmentBreakdown map[Instrument]float64 `json:"investment_breakdown"`

	InvestmentRate  *float64                `json:"investment_rate"`
	ExpenseToIncome *float64                `json:"expense_to_income_ratio"`
	AllocationShare map[Instrument]*float64 `json:"allocation_share"`

	// Growth holds month-over-month rates relative to the preceding
	// snapshot in the same series. All nil at the first index.
	Growth GrowthRates `json:"growth"`

	// HasEntry reports whether the month had any underlying records, so
	// consumers can tell a genuinely zero month from a gap-filled one.
	HasEntry bool `json:"has_entry"`
}

// GrowthRates are month-over-month percentage changes per metric. nil
// when there is no prior month or the prior value was zero.
type GrowthRates struct {
	Income        *float64 `json:"income"`
	Expenses      *float64 `json:"expenses"`
	Investments   *float64 `json:"investments"`
	BudgetBalance *float64 `json:"budget_balance"`
}

// buildSnapshot normalizes one month's records and computes its totals.
// A nil entry means no fixed record exists: every field behaves as zero
// but the month is still represented. Only finalized variable expenses
// count toward the expense total; drafts stay out so totals hold still
// while the user is editing.
func buildSnapshot(p Period, entry *budget.Entry, variable []budget.VariableExpense) Snapshot {
	var zero budget.Entry
	hasEntry := entry != nil
	if entry == nil {
		entry = &zero
	}

	var variableTotal float64
	for _, expense := range variable {
		if expense.Status != budget.StatusFinalized {
			continue
		}
		variableTotal += expense.Amount
		hasEntry = true
	}

	income := entry.Salary + entry.FreelancingOne + entry.FreelancingTwo
	expenses := entry.MobileRecharge + entry.Wifi +
		entry.EmiOne + entry.EmiTwo + entry.EmiThree + entry.EmiFour +
		entry.Food + entry.Rent +
		entry.CreditcardOne + entry.CreditcardTwo +
		entry.Shopping + entry.Travel + entry.OtherExpenses +
		variableTotal
	investments := entry.Sip + entry.FixedDepositOne + entry.FixedDepositTwo + entry.Etf

	breakdown := map[Instrument]float64{
		InstrumentSIP: entry.Sip,
		InstrumentFD1: entry.FixedDepositOne,
		InstrumentFD2: entry.FixedDepositTwo,
		InstrumentETF: entry.Etf,
	}

	snapshot := Snapshot{
		Period:              p,
		IncomeTotal:         income,
		ExpenseTotal:        expenses,
		InvestmentTotal:     investments,
		BudgetBalance:       income - expenses - investments,
		InvestmentBreakdown: breakdown,
		HasEntry:            hasEntry,
	}
	snapshot.InvestmentRate = ratio(investments, income)
	snapshot.ExpenseToIncome = ratio(expenses, income)
	snapshot.AllocationShare = allocationShares(breakdown, investments)
	return snapshot
}
