package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/veerababu-g/budget-planner/internal/analytics"
	"github.com/veerababu-g/budget-planner/internal/auth"
	"github.com/veerababu-g/budget-planner/internal/budget"
)

func seedUser(t *testing.T, store *InMemoryStorage, id string) {
	t.Helper()
	err := store.SaveUser(context.Background(), auth.User{
		ID:        id,
		Username:  "john_doe",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func TestSaveEntryOnePerMonth(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	err := store.SaveEntry(ctx, budget.Entry{ID: "e1", UserID: "u1", Year: 2024, Month: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.SaveEntry(ctx, budget.Entry{ID: "e2", UserID: "u1", Year: 2024, Month: 5})
	if !errors.Is(err, appErrors.ErrConflict) {
		t.Errorf("expected ErrConflict for second entry of the same month, got %v", err)
	}

	// Other users and other months are unaffected.
	if err := store.SaveEntry(ctx, budget.Entry{ID: "e3", UserID: "u2", Year: 2024, Month: 5}); err != nil {
		t.Errorf("other user's entry should save, got %v", err)
	}
	if err := store.SaveEntry(ctx, budget.Entry{ID: "e4", UserID: "u1", Year: 2024, Month: 6}); err != nil {
		t.Errorf("other month's entry should save, got %v", err)
	}
}

func TestListEntriesNewestFirst(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	seed := []budget.Entry{
		{ID: "e1", UserID: "u1", Year: 2023, Month: 12},
		{ID: "e2", UserID: "u1", Year: 2024, Month: 2},
		{ID: "e3", UserID: "u1", Year: 2024, Month: 1},
	}
	for _, entry := range seed {
		if err := store.SaveEntry(ctx, entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"e2", "e3", "e1"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, entries[i].ID)
		}
	}

	years, err := store.ListEntryYears(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Errorf("expected years [2024 2023], got %v", years)
	}
}

func TestGetFixedEntryUnknownUser(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()
	seedUser(t, store, "u1")

	// A known user with no entry reads as an empty month.
	entry, err := store.GetFixedEntry(ctx, "u1", 2024, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry for empty month, got %+v", entry)
	}

	// An unknown user is an error, not an empty month.
	_, err = store.GetFixedEntry(ctx, "ghost", 2024, 5)
	if !errors.Is(err, appErrors.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
	_, err = store.GetVariableEntries(ctx, "ghost", 2024, 5)
	if !errors.Is(err, appErrors.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestMarkExpensesFinalized(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	expenses := []budget.VariableExpense{
		{ID: "x1", UserID: "u1", Year: 2024, Month: 5, Category: "food", Amount: 10, Status: budget.StatusDraft},
		{ID: "x2", UserID: "u1", Year: 2024, Month: 5, Category: "travel", Amount: 20, Status: budget.StatusDraft},
	}
	for _, expense := range expenses {
		if err := store.SaveVariableExpense(ctx, expense); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := store.MarkExpensesFinalized(ctx, "u1", []string{"x1", "x2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := store.ListVariableExpenses(ctx, "u1", 2024, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, expense := range listed {
		if expense.Status != budget.StatusFinalized {
			t.Errorf("expense %s: expected finalized, got %q", expense.ID, expense.Status)
		}
	}

	// Finalizing someone else's expense is refused.
	err = store.MarkExpensesFinalized(ctx, "u2", []string{"x1"})
	if !errors.Is(err, appErrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Drives the full save entry → add draft → finalize → aggregate path
// through the real service and engine. Every amount must land in the
// month's totals exactly once.
func TestFinalizeThenAggregateCountsOnce(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()
	seedUser(t, store, "u1")

	planner := budget.NewBudgetPlanner(store)
	engine := analytics.NewEngine(store)

	if _, err := planner.SaveEntry(ctx, "u1", budget.EntryRequest{
		Year: 2024, Month: 5, Salary: 1000, Rent: 200,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := planner.AddVariableExpense(ctx, "u1", budget.VariableExpenseRequest{
		Year: 2024, Month: 5, Category: "food", Amount: 100,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := analytics.Period{Year: 2024, Month: 5}

	// Before finalize the draft stays out of the totals.
	series, err := engine.Aggregate(ctx, "u1", p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := series.Snapshots[0].ExpenseTotal; got != 200 {
		t.Errorf("expense_total before finalize: expected 200, got %v", got)
	}

	count, err := planner.FinalizeMonth(ctx, "u1", 2024, 5)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 finalized expense, got %d", count)
	}

	series, err = engine.Aggregate(ctx, "u1", p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot := series.Snapshots[0]
	if snapshot.ExpenseTotal != 300 {
		t.Errorf("expense_total after finalize: expected 300 (rent 200 + food 100), got %v", snapshot.ExpenseTotal)
	}
	if snapshot.BudgetBalance != 700 {
		t.Errorf("budget_balance after finalize: expected 700, got %v", snapshot.BudgetBalance)
	}

	// Finalizing again must not move the totals.
	if _, err := planner.FinalizeMonth(ctx, "u1", 2024, 5); err != nil {
		t.Fatalf("second finalize failed: %v", err)
	}
	series, err = engine.Aggregate(ctx, "u1", p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := series.Snapshots[0].ExpenseTotal; got != 300 {
		t.Errorf("expense_total after repeated finalize: expected 300, got %v", got)
	}
}
