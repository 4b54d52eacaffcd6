package budget

import "time"

// Entry is the fixed monthly budget record. At most one exists per
// (user, year, month); finalized variable expenses are reported on top
// of it when the month is aggregated.
type Entry struct {
	ID     string
	UserID string
	Year   int
	Month  int

	// Income
	Salary         float64
	FreelancingOne float64
	FreelancingTwo float64

	// Expenses
	MobileRecharge float64
	Wifi           float64
	EmiOne         float64
	EmiTwo         float64
	EmiThree       float64
	EmiFour        float64
	Food           float64
	Rent           float64
	CreditcardOne  float64
	CreditcardTwo  float64
	Shopping       float64
	Travel         float64
	OtherExpenses  float64

	// Investments
	Sip             float64
	FixedDepositOne float64
	FixedDepositTwo float64
	Etf             float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpenseStatus is the lifecycle of a variable expense. The transition
// is one-way: a finalized expense can no longer be edited or deleted.
type ExpenseStatus string

const (
	StatusDraft     ExpenseStatus = "draft"
	StatusFinalized ExpenseStatus = "finalized"
)

// VariableExpense is one discretionary expense for a month. Drafts stay
// out of monthly totals until the month is finalized.
type VariableExpense struct {
	ID          string
	UserID      string
	Year        int
	Month       int
	Category    string
	Description string
	Amount      float64
	Status      ExpenseStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BucketItem is a wish-list purchase the user is saving towards.
type BucketItem struct {
	ID          string
	UserID      string
	Name        string
	Category    string
	Price       float64
	Description string
	Priority    string
	TargetDate  string
	IsCompleted bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// REQUESTS:

type EntryRequest struct {
	Year  int
	Month int

	Salary         float64
	FreelancingOne float64
	FreelancingTwo float64

	MobileRecharge float64
	Wifi           float64
	EmiOne         float64
	EmiTwo         float64
	EmiThree       float64
	EmiFour        float64
	Food           float64
	Rent           float64
	CreditcardOne  float64
	CreditcardTwo  float64
	Shopping       float64
	Travel         float64
	OtherExpenses  float64

	Sip             float64
	FixedDepositOne float64
	FixedDepositTwo float64
	Etf             float64

	// ConfirmOverwrite must be set to replace an existing entry for the
	// same month.
	ConfirmOverwrite bool
}

type VariableExpenseRequest struct {
	Year        int
	Month       int
	Category    string
	Description string
	Amount      float64
}

type UpdateVariableExpenseRequest struct {
	ID          string
	Description string
	Amount      float64
}

type BucketItemRequest struct {
	Name        string
	Category    string
	Price       float64
	Description string
	Priority    string
	TargetDate  string
}

type UpdateBucketItemRequest struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Description string
	Priority    string
	TargetDate  string
}

func (e *Entry) applyRequest(req EntryRequest) {
	e.Salary = req.Salary
	e.FreelancingOne = req.FreelancingOne
	e.FreelancingTwo = req.FreelancingTwo
	e.MobileRecharge = req.MobileRecharge
	e.Wifi = req.Wifi
	e.EmiOne = req.EmiOne
	e.EmiTwo = req.EmiTwo
	e.EmiThree = req.EmiThree
	e.EmiFour = req.EmiFour
	e.Food = req.Food
	e.Rent = req.Rent
	e.CreditcardOne = req.CreditcardOne
	e.CreditcardTwo = req.CreditcardTwo
	e.Shopping = req.Shopping
	e.Travel = req.Travel
	e.OtherExpenses = req.OtherExpenses
	e.Sip = req.Sip
	e.FixedDepositOne = req.FixedDepositOne
	e.FixedDepositTwo = req.FixedDepositTwo
	e.Etf = req.Etf
}
