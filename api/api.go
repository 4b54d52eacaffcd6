package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xcafe-io/iz"
	"github.com/veerababu-g/budget-planner/internal/analytics"
	"github.com/veerababu-g/budget-planner/internal/auth"
	"github.com/veerababu-g/budget-planner/internal/budget"
	"github.com/veerababu-g/budget-planner/logging"
)

type Api struct {
	Planner   *budget.BudgetPlanner
	Auth      *auth.Service
	Analytics *analytics.Engine
}

func NewApi(planner *budget.BudgetPlanner, authService *auth.Service, engine *analytics.Engine) *Api {
	return &Api{
		Planner:   planner,
		Auth:      authService,
		Analytics: engine,
	}
}

// authorize resolves the Authorization header to a user ID. The header
// carries the raw access token, optionally with a "Bearer " prefix.
func (api *Api) authorize(r *iz.Request) (string, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", fmt.Errorf("authorization header is required")
	}
	return api.Auth.VerifyAccess(token)
}

// USER HANDLERS:

func (api *Api) RegisterHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	tokens, err := api.Auth.Register(ctx, auth.NewUser{
		Username:      req.Username,
		PasswordPlain: req.Password,
	})
	if err != nil {
		msg := fmt.Sprintf("registration failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := TokenPairResponse{
		Message:      "Registration Completed",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) LoginHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	tokens, err := api.Auth.Login(ctx, auth.Credentials{
		Username:      req.Username,
		PasswordPlain: req.Password,
	})
	if err != nil {
		msg := fmt.Sprintf("login failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := TokenPairResponse{
		Message:      "Login successful.",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) RefreshHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	access, err := api.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		msg := fmt.Sprintf("token refresh failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(AccessTokenResponse{AccessToken: access})
}

func (api *Api) LogoutHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	if err := api.Auth.Logout(ctx, req.RefreshToken); err != nil {
		msg := fmt.Sprintf("logout failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).Text("Logout successful.")
}

// ENTRY HANDLERS:

func (api *Api) SaveEntryHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Logger.Errorf("Failed to parse save entry request: %v", err)
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	entry, err := api.Planner.SaveEntry(ctx, userId, req.toDomain())
	if err != nil {
		msg := fmt.Sprintf("failed to save entry: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(entryToHttp(entry))
}

func (api *Api) ListEntriesHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	entries, err := api.Planner.ListEntries(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to list entries: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListEntriesResponse{Entries: make([]EntryItem, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, entryToHttp(entry))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) ListEntryYearsHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	years, err := api.Planner.ListEntryYears(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to list entry years: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(EntryYearsResponse{Years: years})
}

func (api *Api) UpdateEntryHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	entryId := r.PathValue("id")

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	entry, err := api.Planner.UpdateEntry(ctx, userId, entryId, req.toDomain())
	if err != nil {
		msg := fmt.Sprintf("failed to update entry: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(entryToHttp(entry))
}

func (api *Api) DeleteEntryHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	entryId := r.PathValue("id")
	if err := api.Planner.DeleteEntry(ctx, userId, entryId); err != nil {
		msg := fmt.Sprintf("failed to delete entry: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).Text("Entry deleted.")
}

// VARIABLE EXPENSE HANDLERS:

func (api *Api) SaveVariableExpenseHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req SaveVariableExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	expense, err := api.Planner.AddVariableExpense(ctx, userId, budget.VariableExpenseRequest{
		Year:        req.Year,
		Month:       req.Month,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to save expense: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(variableExpenseToHttp(expense))
}

func (api *Api) ListVariableExpensesHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	params := r.URL.Query()
	year, err := strconv.Atoi(params.Get("year"))
	if err != nil {
		return iz.Respond().Status(400).Text("invalid 'year' parameter")
	}
	month, err := strconv.Atoi(params.Get("month"))
	if err != nil {
		return iz.Respond().Status(400).Text("invalid 'month' parameter")
	}

	expenses, err := api.Planner.ListVariableExpenses(ctx, userId, year, month)
	if err != nil {
		msg := fmt.Sprintf("failed to list expenses: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListVariableExpensesResponse{
		Expenses:    make([]VariableExpenseItem, 0, len(expenses)),
		DraftTotals: budget.DraftCategoryTotals(expenses),
	}
	for _, expense := range expenses {
		resp.Expenses = append(resp.Expenses, variableExpenseToHttp(expense))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) UpdateVariableExpenseHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req UpdateVariableExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	expense, err := api.Planner.UpdateVariableExpense(ctx, userId, budget.UpdateVariableExpenseRequest{
		ID:          req.ID,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update expense: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(variableExpenseToHttp(expense))
}

func (api *Api) DeleteVariableExpenseHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	expenseId := r.PathValue("id")
	if err := api.Planner.DeleteVariableExpense(ctx, userId, expenseId); err != nil {
		msg := fmt.Sprintf("failed to delete expense: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).Text("Expense deleted.")
}

func (api *Api) FinalizeMonthHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req FinalizeMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	count, err := api.Planner.FinalizeMonth(ctx, userId, req.Year, req.Month)
	if err != nil {
		msg := fmt.Sprintf("failed to finalize month: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := FinalizeMonthResponse{
		Message:        "Month finalized.",
		FinalizedCount: count,
	}
	return iz.Respond().Status(200).JSON(resp)
}

// BUCKET LIST HANDLERS:

func (api *Api) SaveBucketItemHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req SaveBucketItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	item, err := api.Planner.AddBucketItem(ctx, userId, budget.BucketItemRequest{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Priority:    req.Priority,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to save bucket item: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(bucketItemToHttp(item))
}

func (api *Api) ListBucketItemsHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	items, err := api.Planner.ListBucketItems(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to list bucket items: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListBucketItemsResponse{Items: make([]BucketItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, bucketItemToHttp(item))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) UpdateBucketItemHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req UpdateBucketItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	item, err := api.Planner.UpdateBucketItem(ctx, userId, budget.UpdateBucketItemRequest{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Priority:    req.Priority,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update bucket item: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(bucketItemToHttp(item))
}

func (api *Api) CompleteBucketItemHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	itemId := r.PathValue("id")
	item, err := api.Planner.CompleteBucketItem(ctx, userId, itemId)
	if err != nil {
		msg := fmt.Sprintf("failed to complete bucket item: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(bucketItemToHttp(item))
}

func (api *Api) DeleteBucketItemHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	itemId := r.PathValue("id")
	if err := api.Planner.DeleteBucketItem(ctx, userId, itemId); err != nil {
		msg := fmt.Sprintf("failed to delete bucket item: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).Text("Bucket item deleted.")
}
