package budget

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/google/uuid"
)

const (
	MAX_AMOUNT             = 999999999999999999
	MAX_DESCRIPTION_LENGTH = 1000
	MAX_NAME_LENGTH        = 255
)

var variableCategories = map[string]bool{
	"food":     true,
	"travel":   true,
	"shopping": true,
	"other":    true,
}

var bucketPriorities = map[string]bool{
	"High":   true,
	"Medium": true,
	"Low":    true,
}

type BudgetPlanner struct {
	storage Storage
}

func NewBudgetPlanner(s Storage) *BudgetPlanner {
	return &BudgetPlanner{storage: s}
}

type Storage interface {
	SaveEntry(ctx context.Context, entry Entry) error
	GetEntry(ctx context.Context, userID string, year, month int) (*Entry, error)
	GetEntryByID(ctx context.Context, userID string, entryID string) (Entry, error)
	UpdateEntry(ctx context.Context, entry Entry) error
	DeleteEntry(ctx context.Context, userID string, entryID string) error
	ListEntries(ctx context.Context, userID string) ([]Entry, error)
	ListEntryYears(ctx context.Context, userID string) ([]int, error)

	SaveVariableExpense(ctx context.Context, expense VariableExpense) error
	GetVariableExpenseByID(ctx context.Context, userID string, expenseID string) (VariableExpense, error)
	ListVariableExpenses(ctx context.Context, userID string, year, month int) ([]VariableExpense, error)
	UpdateVariableExpense(ctx context.Context, expense VariableExpense) error
	DeleteVariableExpense(ctx context.Context, userID string, expenseID string) error
	MarkExpensesFinalized(ctx context.Context, userID string, expenseIDs []string) error

	SaveBucketItem(ctx context.Context, item BucketItem) error
	GetBucketItemByID(ctx context.Context, userID string, itemID string) (BucketItem, error)
	ListBucketItems(ctx context.Context, userID string) ([]BucketItem, error)
	UpdateBucketItem(ctx context.Context, item BucketItem) error
	DeleteBucketItem(ctx context.Context, userID string, itemID string) error
}

func validMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be in 1..12, got %d", appErrors.ErrInvalidInput, month)
	}
	if year < 1900 || year > 9999 {
		return fmt.Errorf("%w: year out of range: %d", appErrors.ErrInvalidInput, year)
	}
	return nil
}

// SaveEntry creates the fixed entry for the requested month. When an
// entry already exists the caller must set ConfirmOverwrite, otherwise
// the existing entry is kept and a conflict is reported (the frontend
// shows the overwrite warning in that case).
func (bp *BudgetPlanner) SaveEntry(ctx context.Context, userID string, req EntryRequest) (Entry, error) {
	if err := validMonth(req.Year, req.Month); err != nil {
		return Entry{}, err
	}

	existing, err := bp.storage.GetEntry(ctx, userID, req.Year, req.Month)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to check existing entry: %w", err)
	}

	now := time.Now().UTC()

	if existing != nil {
		if !req.ConfirmOverwrite {
			return Entry{}, fmt.Errorf("%w: an entry for %d-%02d already exists, confirm overwrite to replace it",
				appErrors.ErrConflict, req.Year, req.Month)
		}
		entry := *existing
		entry.applyRequest(req)
		entry.UpdatedAt = now
		if err := bp.storage.UpdateEntry(ctx, entry); err != nil {
			return Entry{}, fmt.Errorf("failed to overwrite entry: %w", err)
		}
		return entry, nil
	}

	entry := Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Year:      req.Year,
		Month:     req.Month,
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry.applyRequest(req)

	if err := bp.storage.SaveEntry(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to save entry: %w", err)
	}
	return entry, nil
}

func (bp *BudgetPlanner) UpdateEntry(ctx context.Context, userID string, entryID string, req EntryRequest) (Entry, error) {
	entry, err := bp.storage.GetEntryByID(ctx, userID, entryID)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}

	entry.applyRequest(req)
	entry.UpdatedAt = time.Now().UTC()

	if err := bp.storage.UpdateEntry(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

func (bp *BudgetPlanner) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	if err := bp.storage.DeleteEntry(ctx, userID, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (bp *BudgetPlanner) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := bp.storage.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ListEntryYears returns the distinct years the user has entries for,
// newest first. The yearly charts page builds its year picker from this.
func (bp *BudgetPlanner) ListEntryYears(ctx context.Context, userID string) ([]int, error) {
	years, err := bp.storage.ListEntryYears(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry years: %w", err)
	}
	return years, nil
}

func (bp *BudgetPlanner) AddVariableExpense(ctx context.Context, userID string, req VariableExpenseRequest) (VariableExpense, error) {
	if err := validMonth(req.Year, req.Month); err != nil {
		return VariableExpense{}, err
	}
	if !variableCategories[req.Category] {
		return VariableExpense{}, fmt.Errorf("%w: invalid category %q, allowed: food, travel, shopping, other",
			appErrors.ErrInvalidInput, req.Category)
	}
	if req.Amount <= 0 || req.Amount > MAX_AMOUNT {
		return VariableExpense{}, fmt.Errorf("%w: amount must be positive and below the limit", appErrors.ErrInvalidInput)
	}
	if len(req.Description) > MAX_DESCRIPTION_LENGTH {
		return VariableExpense{}, fmt.Errorf("%w: description so long, maximum allowed length is: %d",
			appErrors.ErrInvalidInput, MAX_DESCRIPTION_LENGTH)
	}

	now := time.Now().UTC()
	expense := VariableExpense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Year:        req.Year,
		Month:       req.Month,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := bp.storage.SaveVariableExpense(ctx, expense); err != nil {
		return VariableExpense{}, fmt.Errorf("failed to save variable expense: %w", err)
	}
	return expense, nil
}

func (bp *BudgetPlanner) UpdateVariableExpense(ctx context.Context, userID string, req UpdateVariableExpenseRequest) (VariableExpense, error) {
	if req.Amount <= 0 || req.Amount > MAX_AMOUNT {
		return VariableExpense{}, fmt.Errorf("%w: amount must be positive and below the limit", appErrors.ErrInvalidInput)
	}
	if len(req.Description) > MAX_DESCRIPTION_LENGTH {
		return VariableExpense{}, fmt.Errorf("%w: description so long, maximum allowed length is: %d",
			appErrors.ErrInvalidInput, MAX_DESCRIPTION_LENGTH)
	}

	expense, err := bp.storage.GetVariableExpenseByID(ctx, userID, req.ID)
	if err != nil {
		return VariableExpense{}, fmt.Errorf("failed to get variable expense: %w", err)
	}
	if expense.Status == StatusFinalized {
		return VariableExpense{}, fmt.Errorf("%w: expense is already finalized and can no longer be edited", appErrors.ErrConflict)
	}

	expense.Description = req.Description
	expense.Amount = req.Amount
	expense.UpdatedAt = time.Now().UTC()

	if err := bp.storage.UpdateVariableExpense(ctx, expense); err != nil {
		return VariableExpense{}, fmt.Errorf("failed to update variable expense: %w", err)
	}
	return expense, nil
}

func (bp *BudgetPlanner) DeleteVariableExpense(ctx context.Context, userID string, expenseID string) error {
	expense, err := bp.storage.GetVariableExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return fmt.Errorf("failed to get variable expense: %w", err)
	}
	if expense.Status == StatusFinalized {
		return fmt.Errorf("%w: expense is already finalized and can no longer be deleted", appErrors.ErrConflict)
	}
	if err := bp.storage.DeleteVariableExpense(ctx, userID, expenseID); err != nil {
		return fmt.Errorf("failed to delete variable expense: %w", err)
	}
	return nil
}

func (bp *BudgetPlanner) ListVariableExpenses(ctx context.Context, userID string, year, month int) ([]VariableExpense, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	expenses, err := bp.storage.ListVariableExpenses(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list variable expenses: %w", err)
	}
	return expenses, nil
}

// DraftCategoryTotals sums the month's draft expenses per category, for
// the running totals shown while the user is still editing.
func DraftCategoryTotals(expenses []VariableExpense) map[string]float64 {
	totals := make(map[string]float64)
	for _, expense := range expenses {
		if expense.Status != StatusDraft {
			continue
		}
		totals[expense.Category] += expense.Amount
	}
	return totals
}

// FinalizeMonth marks all draft variable expenses of the month
// finalized. Aggregation counts finalized expenses alongside the fixed
// entry; the entry itself is never mutated, so each amount enters the
// month's totals exactly once. Returns the number of expenses
// finalized; zero drafts is not an error.
func (bp *BudgetPlanner) FinalizeMonth(ctx context.Context, userID string, year, month int) (int, error) {
	if err := validMonth(year, month); err != nil {
		return 0, err
	}

	expenses, err := bp.storage.ListVariableExpenses(ctx, userID, year, month)
	if err != nil {
		return 0, fmt.Errorf("failed to list variable expenses: %w", err)
	}

	ids := make([]string, 0, len(expenses))
	for _, expense := range expenses {
		if expense.Status == StatusDraft {
			ids = append(ids, expense.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := bp.storage.MarkExpensesFinalized(ctx, userID, ids); err != nil {
		return 0, fmt.Errorf("failed to mark expenses finalized: %w", err)
	}
	return len(ids), nil
}

func (bp *BudgetPlanner) AddBucketItem(ctx context.Context, userID string, req BucketItemRequest) (BucketItem, error) {
	if req.Name == "" {
		return BucketItem{}, fmt.Errorf("%w: item name is empty", appErrors.ErrInvalidInput)
	}
	if len(req.Name) > MAX_NAME_LENGTH {
		return BucketItem{}, fmt.Errorf("%w: item name so long, maximum allowed length is: %d",
			appErrors.ErrInvalidInput, MAX_NAME_LENGTH)
	}
	if req.Price <= 0 || req.Price > MAX_AMOUNT {
		return BucketItem{}, fmt.Errorf("%w: price must be positive and below the limit", appErrors.ErrInvalidInput)
	}

	category := req.Category
	if category == "" {
		category = "General"
	}
	priority := req.Priority
	if priority == "" {
		priority = "Medium"
	}
	if !bucketPriorities[priority] {
		return BucketItem{}, fmt.Errorf("%w: invalid priority %q, allowed: High, Medium, Low",
			appErrors.ErrInvalidInput, priority)
	}

	item := BucketItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Category:    category,
		Price:       req.Price,
		Description: req.Description,
		Priority:    priority,
		TargetDate:  req.TargetDate,
		CreatedAt:   time.Now().UTC(),
	}

	if err := bp.storage.SaveBucketItem(ctx, item); err != nil {
		return BucketItem{}, fmt.Errorf("failed to save bucket item: %w", err)
	}
	return item, nil
}

func (bp *BudgetPlanner) UpdateBucketItem(ctx context.Context, userID string, req UpdateBucketItemRequest) (BucketItem, error) {
	if req.Name == "" {
		return BucketItem{}, fmt.Errorf("%w: item name is empty", appErrors.ErrInvalidInput)
	}
	if req.Price <= 0 || req.Price > MAX_AMOUNT {
		return BucketItem{}, fmt.Errorf("%w: price must be positive and below the limit", appErrors.ErrInvalidInput)
	}

	item, err := bp.storage.GetBucketItemByID(ctx, userID, req.ID)
	if err != nil {
		return BucketItem{}, fmt.Errorf("failed to get bucket item: %w", err)
	}

	item.Name = req.Name
	if req.Category != "" {
		item.Category = req.Category
	}
	item.Price = req.Price
	item.Description = req.Description
	if req.Priority != "" {
		if !bucketPriorities[req.Priority] {
			return BucketItem{}, fmt.Errorf("%w: invalid priority %q, allowed: High, Medium, Low",
				appErrors.ErrInvalidInput, req.Priority)
		}
		item.Priority = req.Priority
	}
	item.TargetDate = req.TargetDate

	if err := bp.storage.UpdateBucketItem(ctx, item); err != nil {
		return BucketItem{}, fmt.Errorf("failed to update bucket item: %w", err)
	}
	return item, nil
}

func (bp *BudgetPlanner) CompleteBucketItem(ctx context.Context, userID string, itemID string) (BucketItem, error) {
	item, err := bp.storage.GetBucketItemByID(ctx, userID, itemID)
	if err != nil {
		return BucketItem{}, fmt.Errorf("failed to get bucket item: %w", err)
	}
	if item.IsCompleted {
		return item, nil
	}

	now := time.Now().UTC()
	item.IsCompleted = true
	item.CompletedAt = &now

	if err := bp.storage.UpdateBucketItem(ctx, item); err != nil {
		return BucketItem{}, fmt.Errorf("failed to complete bucket item: %w", err)
	}
	return item, nil
}

func (bp *BudgetPlanner) DeleteBucketItem(ctx context.Context, userID string, itemID string) error {
	if err := bp.storage.DeleteBucketItem(ctx, userID, itemID); err != nil {
		return fmt.Errorf("failed to delete bucket item: %w", err)
	}
	return nil
}

func (bp *BudgetPlanner) ListBucketItems(ctx context.Context, userID string) ([]BucketItem, error) {
	items, err := bp.storage.ListBucketItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket items: %w", err)
	}
	return items, nil
}
