package api

import (
	"errors"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/veerababu-g/budget-planner/internal/analytics"
	"github.com/veerababu-g/budget-planner/internal/budget"
)

// REQUESTS START:

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SaveEntryRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	Salary         float64 `json:"salary"`
	FreelancingOne float64 `json:"freelancing_one"`
	FreelancingTwo float64 `json:"freelancing_two"`

	MobileRecharge float64 `json:"mobile_recharge"`
	Wifi           float64 `json:"wifi"`
	EmiOne         float64 `json:"emi_one"`
	EmiTwo         float64 `json:"emi_two"`
	EmiThree       float64 `json:"emi_three"`
	EmiFour        float64 `json:"emi_four"`
	Food           float64 `json:"food"`
	Rent           float64 `json:"rent"`
	CreditcardOne  float64 `json:"creditcard_one"`
	CreditcardTwo  float64 `json:"creditcard_two"`
	Shopping       float64 `json:"shopping"`
	Travel         float64 `json:"travel"`
	OtherExpenses  float64 `json:"other_expenses"`

	Sip             float64 `json:"sip"`
	FixedDepositOne float64 `json:"fixed_deposit_one"`
	FixedDepositTwo float64 `json:"fixed_deposit_two"`
	Etf             float64 `json:"etf"`

	ConfirmOverwrite bool `json:"confirm_overwrite"`
}

func (req SaveEntryRequest) toDomain() budget.EntryRequest {
	return budget.EntryRequest{
		Year:             req.Year,
		Month:            req.Month,
		Salary:           req.Salary,
		FreelancingOne:   req.FreelancingOne,
		FreelancingTwo:   req.FreelancingTwo,
		MobileRecharge:   req.MobileRecharge,
		Wifi:             req.Wifi,
		EmiOne:           req.EmiOne,
		EmiTwo:           req.EmiTwo,
		EmiThree:         req.EmiThree,
		EmiFour:          req.EmiFour,
		Food:             req.Food,
		Rent:             req.Rent,
		CreditcardOne:    req.CreditcardOne,
		CreditcardTwo:    req.CreditcardTwo,
		Shopping:         req.Shopping,
		Travel:           req.Travel,
		OtherExpenses:    req.OtherExpenses,
		Sip:              req.Sip,
		FixedDepositOne:  req.FixedDepositOne,
		FixedDepositTwo:  req.FixedDepositTwo,
		Etf:              req.Etf,
		ConfirmOverwrite: req.ConfirmOverwrite,
	}
}

type SaveVariableExpenseRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type UpdateVariableExpenseRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type FinalizeMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type SaveBucketItemRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	TargetDate  string  `json:"target_date"`
}

type UpdateBucketItemRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	TargetDate  string  `json:"target_date"`
}

// REQUESTS END:

// RESPONSES:

type TokenPairResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type EntryItem struct {
	ID    string `json:"id"`
	Year  int    `json:"year"`
	Month int    `json:"month"`

	Salary         float64 `json:"salary"`
	FreelancingOne float64 `json:"freelancing_one"`
	FreelancingTwo float64 `json:"freelancing_two"`

	MobileRecharge float64 `json:"mobile_recharge"`
	Wifi           float64 `json:"wifi"`
	EmiOne         float64 `json:"emi_one"`
	EmiTwo         float64 `json:"emi_two"`
	EmiThree       float64 `json:"emi_three"`
	EmiFour        float64 `json:"emi_four"`
	Food           float64 `json:"food"`
	Rent           float64 `json:"rent"`
	CreditcardOne  float64 `json:"creditcard_one"`
	CreditcardTwo  float64 `json:"creditcard_two"`
	Shopping       float64 `json:"shopping"`
	Travel         float64 `json:"travel"`
	OtherExpenses  float64 `json:"other_expenses"`

	Sip             float64 `json:"sip"`
	FixedDepositOne float64 `json:"fixed_deposit_one"`
	FixedDepositTwo float64 `json:"fixed_deposit_two"`
	Etf             float64 `json:"etf"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListEntriesResponse struct {
	Entries []EntryItem `json:"entries"`
}

type EntryYearsResponse struct {
	Years []int `json:"years"`
}

type VariableExpenseItem struct {
	ID          string  `json:"id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListVariableExpensesResponse struct {
	Expenses    []VariableExpenseItem `json:"expenses"`
	DraftTotals map[string]float64    `json:"draft_totals"`
}

type FinalizeMonthResponse struct {
	Message        string `json:"message"`
	FinalizedCount int    `json:"finalized_count"`
}

type BucketItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	TargetDate  string  `json:"target_date"`
	IsCompleted bool    `json:"is_completed"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

type ListBucketItemsResponse struct {
	Items []BucketItemResponse `json:"items"`
}

// MonthSnapshot pairs a snapshot with its display label.
type MonthSnapshot struct {
	MonthName string `json:"month_name"`
	analytics.Snapshot
}

type TrendsResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Snapshots []MonthSnapshot `json:"snapshots"`
}

type YearlyChartResponse struct {
	Year    int                   `json:"year"`
	Months  []MonthSnapshot       `json:"months"`
	Summary analytics.YearSummary `json:"summary"`
}

// MonthlyAnalysisResponse carries the current month plus its two
// comparison points. Previous and YearOverYear are null when the
// comparison month falls outside the aggregated range.
type MonthlyAnalysisResponse struct {
	Current      MonthSnapshot         `json:"current"`
	Previous     *MonthSnapshot        `json:"previous"`
	YearOverYear *MonthSnapshot        `json:"year_over_year"`
	YearToDate   analytics.YearSummary `json:"year_to_date"`
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrNotFound):
		return 404 // not found
	case errors.Is(err, appErrors.ErrUnknownUser):
		return 404 // not found
	case errors.Is(err, appErrors.ErrInvalidInput):
		return 400 // bad request
	case errors.Is(err, appErrors.ErrInvalidRange):
		return 400 // bad request
	case errors.Is(err, appErrors.ErrAuth):
		return 401 // unauthorized
	case errors.Is(err, appErrors.ErrAccessDenied):
		return 403 // access denied
	case errors.Is(err, appErrors.ErrConflict):
		return 409 // conflict
	case errors.Is(err, appErrors.ErrStoreUnavailable):
		return 503 // service unavailable
	default:
		return 500 // internal error
	}
}

func entryToHttp(entry budget.Entry) EntryItem {
	return EntryItem{
		ID:              entry.ID,
		Year:            entry.Year,
		Month:           entry.Month,
		Salary:          entry.Salary,
		FreelancingOne:  entry.FreelancingOne,
		FreelancingTwo:  entry.FreelancingTwo,
		MobileRecharge:  entry.MobileRecharge,
		Wifi:            entry.Wifi,
		EmiOne:          entry.EmiOne,
		EmiTwo:          entry.EmiTwo,
		EmiThree:        entry.EmiThree,
		EmiFour:         entry.EmiFour,
		Food:            entry.Food,
		Rent:            entry.Rent,
		CreditcardOne:   entry.CreditcardOne,
		CreditcardTwo:   entry.CreditcardTwo,
		Shopping:        entry.Shopping,
		Travel:          entry.Travel,
		OtherExpenses:   entry.OtherExpenses,
		Sip:             entry.Sip,
		FixedDepositOne: entry.FixedDepositOne,
		FixedDepositTwo: entry.FixedDepositTwo,
		Etf:             entry.Etf,
		CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       entry.UpdatedAt.Format(time.RFC3339),
	}
}

func variableExpenseToHttp(expense budget.VariableExpense) VariableExpenseItem {
	return VariableExpenseItem{
		ID:          expense.ID,
		Year:        expense.Year,
		Month:       expense.Month,
		Category:    expense.Category,
		Description: expense.Description,
		Amount:      expense.Amount,
		Status:      string(expense.Status),
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
}

func bucketItemToHttp(item budget.BucketItem) BucketItemResponse {
	resp := BucketItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Description: item.Description,
		Priority:    item.Priority,
		TargetDate:  item.TargetDate,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
	if item.CompletedAt != nil {
		completed := item.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

func snapshotToHttp(snapshot analytics.Snapshot) MonthSnapshot {
	return MonthSnapshot{
		MonthName: snapshot.Period.MonthName(),
		Snapshot:  snapshot,
	}
}

func snapshotsToHttp(snapshots []analytics.Snapshot) []MonthSnapshot {
	items := make([]MonthSnapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		items = append(items, snapshotToHttp(snapshot))
	}
	return items
}
