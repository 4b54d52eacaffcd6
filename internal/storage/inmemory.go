package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/veerababu-g/budget-planner/internal/auth"
	"github.com/veerababu-g/budget-planner/internal/budget"
)

// InMemoryStorage keeps everything in process memory. It backs the unit
// tests and local development without a database.
type InMemoryStorage struct {
	mu sync.RWMutex

	users         map[string]auth.User // keyed by user ID
	refreshTokens map[string]auth.RefreshToken
	entries       map[string]budget.Entry
	expenses      map[string]budget.VariableExpense
	bucketItems   map[string]budget.BucketItem
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users:         make(map[string]auth.User),
		refreshTokens: make(map[string]auth.RefreshToken),
		entries:       make(map[string]budget.Entry),
		expenses:      make(map[string]budget.VariableExpense),
		bucketItems:   make(map[string]budget.BucketItem),
	}
}

// --- auth.Storage ---

func (inMem *InMemoryStorage) SaveUser(ctx context.Context, user auth.User) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.users[user.ID] = user
	return nil
}

func (inMem *InMemoryStorage) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	for _, user := range inMem.users {
		if user.Username == username {
			return user, nil
		}
	}
	return auth.User{}, fmt.Errorf("%w: user %q", appErrors.ErrNotFound, username)
}

func (inMem *InMemoryStorage) IsUserExists(ctx context.Context, username string) (bool, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	for _, user := range inMem.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (inMem *InMemoryStorage) SaveRefreshToken(ctx context.Context, token auth.RefreshToken) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.refreshTokens[token.Token] = token
	return nil
}

func (inMem *InMemoryStorage) GetRefreshToken(ctx context.Context, token string) (auth.RefreshToken, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	record, ok := inMem.refreshTokens[token]
	if !ok {
		return auth.RefreshToken{}, fmt.Errorf("%w: refresh token", appErrors.ErrNotFound)
	}
	return record, nil
}

func (inMem *InMemoryStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	record, ok := inMem.refreshTokens[token]
	if !ok {
		return fmt.Errorf("%w: refresh token", appErrors.ErrNotFound)
	}
	record.Revoked = true
	inMem.refreshTokens[token] = record
	return nil
}

// --- budget.Storage ---

func (inMem *InMemoryStorage) SaveEntry(ctx context.Context, entry budget.Entry) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for _, existing := range inMem.entries {
		if existing.UserID == entry.UserID && existing.Year == entry.Year && existing.Month == entry.Month {
			return fmt.Errorf("%w: entry for %d-%02d already exists", appErrors.ErrConflict, entry.Year, entry.Month)
		}
	}
	inMem.entries[entry.ID] = entry
	return nil
}

func (inMem *InMemoryStorage) GetEntry(ctx context.Context, userID string, year, month int) (*budget.Entry, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	for _, entry := range inMem.entries {
		if entry.UserID == userID && entry.Year == year && entry.Month == month {
			found := entry
			return &found, nil
		}
	}
	return nil, nil
}

func (inMem *InMemoryStorage) GetEntryByID(ctx context.Context, userID string, entryID string) (budget.Entry, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	entry, ok := inMem.entries[entryID]
	if !ok || entry.UserID != userID {
		return budget.Entry{}, fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entryID)
	}
	return entry, nil
}

func (inMem *InMemoryStorage) UpdateEntry(ctx context.Context, entry budget.Entry) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	existing, ok := inMem.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entry.ID)
	}
	inMem.entries[entry.ID] = entry
	return nil
}

func (inMem *InMemoryStorage) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	entry, ok := inMem.entries[entryID]
	if !ok || entry.UserID != userID {
		return fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entryID)
	}
	delete(inMem.entries, entryID)
	return nil
}

func (inMem *InMemoryStorage) ListEntries(ctx context.Context, userID string) ([]budget.Entry, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	var entries []budget.Entry
	for _, entry := range inMem.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year > entries[j].Year
		}
		return entries[i].Month > entries[j].Month
	})
	return entries, nil
}

func (inMem *InMemoryStorage) ListEntryYears(ctx context.Context, userID string) ([]int, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	seen := make(map[int]bool)
	for _, entry := range inMem.entries {
		if entry.UserID == userID {
			seen[entry.Year] = true
		}
	}
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (inMem *InMemoryStorage) SaveVariableExpense(ctx context.Context, expense budget.VariableExpense) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.expenses[expense.ID] = expense
	return nil
}

func (inMem *InMemoryStorage) GetVariableExpenseByID(ctx context.Context, userID string, expenseID string) (budget.VariableExpense, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	expense, ok := inMem.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return budget.VariableExpense{}, fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expenseID)
	}
	return expense, nil
}

func (inMem *InMemoryStorage) ListVariableExpenses(ctx context.Context, userID string, year, month int) ([]budget.VariableExpense, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	var expenses []budget.VariableExpense
	for _, expense := range inMem.expenses {
		if expense.UserID == userID && expense.Year == year && expense.Month == month {
			expenses = append(expenses, expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.Before(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (inMem *InMemoryStorage) UpdateVariableExpense(ctx context.Context, expense budget.VariableExpense) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	existing, ok := inMem.expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expense.ID)
	}
	inMem.expenses[expense.ID] = expense
	return nil
}

func (inMem *InMemoryStorage) DeleteVariableExpense(ctx context.Context, userID string, expenseID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	expense, ok := inMem.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expenseID)
	}
	delete(inMem.expenses, expenseID)
	return nil
}

func (inMem *InMemoryStorage) MarkExpensesFinalized(ctx context.Context, userID string, expenseIDs []string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for _, id := range expenseIDs {
		expense, ok := inMem.expenses[id]
		if !ok || expense.UserID != userID {
			return fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, id)
		}
		expense.Status = budget.StatusFinalized
		inMem.expenses[id] = expense
	}
	return nil
}

func (inMem *InMemoryStorage) SaveBucketItem(ctx context.Context, item budget.BucketItem) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.bucketItems[item.ID] = item
	return nil
}

func (inMem *InMemoryStorage) GetBucketItemByID(ctx context.Context, userID string, itemID string) (budget.BucketItem, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	item, ok := inMem.bucketItems[itemID]
	if !ok || item.UserID != userID {
		return budget.BucketItem{}, fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, itemID)
	}
	return item, nil
}

func (inMem *InMemoryStorage) ListBucketItems(ctx context.Context, userID string) ([]budget.BucketItem, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	var items []budget.BucketItem
	for _, item := range inMem.bucketItems {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (inMem *InMemoryStorage) UpdateBucketItem(ctx context.Context, item budget.BucketItem) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	existing, ok := inMem.bucketItems[item.ID]
	if !ok || existing.UserID != item.UserID {
		return fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, item.ID)
	}
	inMem.bucketItems[item.ID] = item
	return nil
}

func (inMem *InMemoryStorage) DeleteBucketItem(ctx context.Context, userID string, itemID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	item, ok := inMem.bucketItems[itemID]
	if !ok || item.UserID != userID {
		return fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, itemID)
	}
	delete(inMem.bucketItems, itemID)
	return nil
}

// --- analytics.EntryStore ---

// GetFixedEntry resolves the user first so an unknown identifier fails
// loudly instead of looking like an empty month.
func (inMem *InMemoryStorage) GetFixedEntry(ctx context.Context, userID string, year, month int) (*budget.Entry, error) {
	inMem.mu.RLock()
	if _, ok := inMem.users[userID]; !ok {
		inMem.mu.RUnlock()
		return nil, fmt.Errorf("%w: user %q", appErrors.ErrUnknownUser, userID)
	}
	inMem.mu.RUnlock()
	return inMem.GetEntry(ctx, userID, year, month)
}

func (inMem *InMemoryStorage) GetVariableEntries(ctx context.Context, userID string, year, month int) ([]budget.VariableExpense, error) {
	inMem.mu.RLock()
	if _, ok := inMem.users[userID]; !ok {
		inMem.mu.RUnlock()
		return nil, fmt.Errorf("%w: user %q", appErrors.ErrUnknownUser, userID)
	}
	inMem.mu.RUnlock()
	return inMem.ListVariableExpenses(ctx, userID, year, month)
}
