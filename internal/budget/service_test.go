package budget

import (
	"context"
	"errors"
	"strings"
	"testing"

	appErrors "github.com/veerababu-g/budget-planner/errors"
)

// Mocks
type MockStorage struct {
	entries  map[string]Entry
	expenses map[string]VariableExpense
	items    map[string]BucketItem
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		entries:  make(map[string]Entry),
		expenses: make(map[string]VariableExpense),
		items:    make(map[string]BucketItem),
	}
}

func (m *MockStorage) SaveEntry(ctx context.Context, entry Entry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockStorage) GetEntry(ctx context.Context, userID string, year, month int) (*Entry, error) {
	for _, entry := range m.entries {
		if entry.UserID == userID && entry.Year == year && entry.Month == month {
			found := entry
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockStorage) GetEntryByID(ctx context.Context, userID string, entryID string) (Entry, error) {
	entry, ok := m.entries[entryID]
	if !ok || entry.UserID != userID {
		return Entry{}, appErrors.ErrNotFound
	}
	return entry, nil
}

func (m *MockStorage) UpdateEntry(ctx context.Context, entry Entry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return appErrors.ErrNotFound
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockStorage) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	if _, ok := m.entries[entryID]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.entries, entryID)
	return nil
}

func (m *MockStorage) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	var entries []Entry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *MockStorage) ListEntryYears(ctx context.Context, userID string) ([]int, error) {
	seen := make(map[int]bool)
	var years []int
	for _, entry := range m.entries {
		if entry.UserID == userID && !seen[entry.Year] {
			seen[entry.Year] = true
			years = append(years, entry.Year)
		}
	}
	return years, nil
}

func (m *MockStorage) SaveVariableExpense(ctx context.Context, expense VariableExpense) error {
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockStorage) GetVariableExpenseByID(ctx context.Context, userID string, expenseID string) (VariableExpense, error) {
	expense, ok := m.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return VariableExpense{}, appErrors.ErrNotFound
	}
	return expense, nil
}

func (m *MockStorage) ListVariableExpenses(ctx context.Context, userID string, year, month int) ([]VariableExpense, error) {
	var expenses []VariableExpense
	for _, expense := range m.expenses {
		if expense.UserID == userID && expense.Year == year && expense.Month == month {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (m *MockStorage) UpdateVariableExpense(ctx context.Context, expense VariableExpense) error {
	if _, ok := m.expenses[expense.ID]; !ok {
		return appErrors.ErrNotFound
	}
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockStorage) DeleteVariableExpense(ctx context.Context, userID string, expenseID string) error {
	if _, ok := m.expenses[expenseID]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.expenses, expenseID)
	return nil
}

func (m *MockStorage) MarkExpensesFinalized(ctx context.Context, userID string, expenseIDs []string) error {
	for _, id := range expenseIDs {
		expense := m.expenses[id]
		expense.Status = StatusFinalized
		m.expenses[id] = expense
	}
	return nil
}

func (m *MockStorage) SaveBucketItem(ctx context.Context, item BucketItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *MockStorage) GetBucketItemByID(ctx context.Context, userID string, itemID string) (BucketItem, error) {
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return BucketItem{}, appErrors.ErrNotFound
	}
	return item, nil
}

func (m *MockStorage) ListBucketItems(ctx context.Context, userID string) ([]BucketItem, error) {
	var items []BucketItem
	for _, item := range m.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *MockStorage) UpdateBucketItem(ctx context.Context, item BucketItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return appErrors.ErrNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockStorage) DeleteBucketItem(ctx context.Context, userID string, itemID string) error {
	if _, ok := m.items[itemID]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func TestSaveEntryOverwriteConfirmation(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	first, err := bp.SaveEntry(ctx, userId, EntryRequest{Year: 2024, Month: 5, Salary: 1000})
	if err != nil {
		t.Fatalf("expected first save to succeed, got %v", err)
	}

	_, err = bp.SaveEntry(ctx, userId, EntryRequest{Year: 2024, Month: 5, Salary: 2000})
	if !errors.Is(err, appErrors.ErrConflict) {
		t.Fatalf("expected ErrConflict without overwrite confirmation, got %v", err)
	}

	overwritten, err := bp.SaveEntry(ctx, userId, EntryRequest{
		Year: 2024, Month: 5, Salary: 2000, ConfirmOverwrite: true,
	})
	if err != nil {
		t.Fatalf("expected confirmed overwrite to succeed, got %v", err)
	}
	if overwritten.ID != first.ID {
		t.Errorf("overwrite should keep the entry ID, got %s want %s", overwritten.ID, first.ID)
	}
	if overwritten.Salary != 2000 {
		t.Errorf("expected salary 2000 after overwrite, got %v", overwritten.Salary)
	}
}

func TestSaveEntryValidation(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	tests := []struct {
		name  string
		input EntryRequest
	}{
		{name: "Fail - month zero", input: EntryRequest{Year: 2024, Month: 0}},
		{name: "Fail - month thirteen", input: EntryRequest{Year: 2024, Month: 13}},
		{name: "Fail - year out of range", input: EntryRequest{Year: 123, Month: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bp.SaveEntry(ctx, userId, tt.input)
			if !errors.Is(err, appErrors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAddVariableExpenseValidation(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	tests := []struct {
		name        string
		input       VariableExpenseRequest
		expectedMsg string
	}{
		{
			name:        "Fail - unknown category",
			input:       VariableExpenseRequest{Year: 2024, Month: 5, Category: "gadgets", Amount: 10},
			expectedMsg: "invalid category",
		},
		{
			name:        "Fail - zero amount",
			input:       VariableExpenseRequest{Year: 2024, Month: 5, Category: "food", Amount: 0},
			expectedMsg: "amount must be positive",
		},
		{
			name:        "Fail - description too long",
			input:       VariableExpenseRequest{Year: 2024, Month: 5, Category: "food", Amount: 10, Description: strings.Repeat("A", 1001)},
			expectedMsg: "description so long",
		},
		{
			name:  "Success - valid expense",
			input: VariableExpenseRequest{Year: 2024, Month: 5, Category: "food", Amount: 250.5, Description: "groceries"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense, err := bp.AddVariableExpense(ctx, userId, tt.input)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Expected success, but got error: %v", err)
				}
				if expense.Status != StatusDraft {
					t.Errorf("new expense should start as draft, got %q", expense.Status)
				}
			}
		})
	}
}

func TestFinalizedExpenseIsImmutable(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	expense, err := bp.AddVariableExpense(ctx, userId, VariableExpenseRequest{
		Year: 2024, Month: 5, Category: "travel", Amount: 80,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := bp.FinalizeMonth(ctx, userId, 2024, 5); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	_, err = bp.UpdateVariableExpense(ctx, userId, UpdateVariableExpenseRequest{ID: expense.ID, Amount: 90})
	if !errors.Is(err, appErrors.ErrConflict) {
		t.Errorf("expected ErrConflict updating a finalized expense, got %v", err)
	}

	err = bp.DeleteVariableExpense(ctx, userId, expense.ID)
	if !errors.Is(err, appErrors.ErrConflict) {
		t.Errorf("expected ErrConflict deleting a finalized expense, got %v", err)
	}
}

func TestFinalizeMonthMarksDraftsOnly(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	if _, err := bp.SaveEntry(ctx, userId, EntryRequest{Year: 2024, Month: 5, Food: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drafts := []VariableExpenseRequest{
		{Year: 2024, Month: 5, Category: "food", Amount: 40},
		{Year: 2024, Month: 5, Category: "food", Amount: 60},
		{Year: 2024, Month: 5, Category: "shopping", Amount: 30},
	}
	for _, draft := range drafts {
		if _, err := bp.AddVariableExpense(ctx, userId, draft); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count, err := bp.FinalizeMonth(ctx, userId, 2024, 5)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 finalized expenses, got %d", count)
	}

	expenses, err := mockStore.ListVariableExpenses(ctx, userId, 2024, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, expense := range expenses {
		if expense.Status != StatusFinalized {
			t.Errorf("expense %s: expected finalized, got %q", expense.ID, expense.Status)
		}
	}

	// The fixed entry is untouched: finalized amounts enter the totals
	// only at aggregation time, never by mutating the entry.
	entry, err := mockStore.GetEntry(ctx, userId, 2024, 5)
	if err != nil || entry == nil {
		t.Fatalf("expected entry to survive finalize, got entry=%v err=%v", entry, err)
	}
	if entry.Food != 100 {
		t.Errorf("food: expected 100 (unchanged by finalize), got %v", entry.Food)
	}
	if entry.Shopping != 0 {
		t.Errorf("shopping: expected 0 (unchanged by finalize), got %v", entry.Shopping)
	}

	// Finalizing again is a no-op: no drafts remain.
	count, err = bp.FinalizeMonth(ctx, userId, 2024, 5)
	if err != nil {
		t.Fatalf("second finalize failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 newly finalized expenses, got %d", count)
	}
}

func TestFinalizeMonthWithoutFixedEntry(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	expense, err := bp.AddVariableExpense(ctx, userId, VariableExpenseRequest{
		Year: 2024, Month: 6, Category: "other", Amount: 75,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := bp.FinalizeMonth(ctx, userId, 2024, 6); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	finalized, err := mockStore.GetVariableExpenseByID(ctx, userId, expense.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finalized.Status != StatusFinalized {
		t.Errorf("expected finalized, got %q", finalized.Status)
	}

	// No fixed entry is conjured up; the aggregation layer represents
	// the month from the finalized expense alone.
	entry, err := mockStore.GetEntry(ctx, userId, 2024, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("expected no fixed entry after finalize, got %+v", entry)
	}
}

func TestBucketItemLifecycle(t *testing.T) {
	mockStore := NewMockStorage()
	bp := NewBudgetPlanner(mockStore)
	ctx := context.Background()
	userId := "john-1234"

	tests := []struct {
		name        string
		input       BucketItemRequest
		expectedMsg string
	}{
		{
			name:        "Fail - empty name",
			input:       BucketItemRequest{Name: "", Price: 500},
			expectedMsg: "name is empty",
		},
		{
			name:        "Fail - zero price",
			input:       BucketItemRequest{Name: "Camera", Price: 0},
			expectedMsg: "price must be positive",
		},
		{
			name:        "Fail - bad priority",
			input:       BucketItemRequest{Name: "Camera", Price: 500, Priority: "Urgent"},
			expectedMsg: "invalid priority",
		},
		{
			name:  "Success - defaults applied",
			input: BucketItemRequest{Name: "Camera", Price: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := bp.AddBucketItem(ctx, userId, tt.input)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected success, but got error: %v", err)
			}
			if item.Category != "General" || item.Priority != "Medium" {
				t.Errorf("expected defaults General/Medium, got %s/%s", item.Category, item.Priority)
			}

			completed, err := bp.CompleteBucketItem(ctx, userId, item.ID)
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if !completed.IsCompleted || completed.CompletedAt == nil {
				t.Error("expected item to be completed with a timestamp")
			}

			// Completing twice keeps the original timestamp.
			again, err := bp.CompleteBucketItem(ctx, userId, item.ID)
			if err != nil {
				t.Fatalf("second complete failed: %v", err)
			}
			if !again.CompletedAt.Equal(*completed.CompletedAt) {
				t.Error("second completion should not move the timestamp")
			}
		})
	}
}
