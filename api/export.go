package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/veerababu-g/budget-planner/internal/budget"
	"github.com/veerababu-g/budget-planner/internal/contextutil"
	"github.com/veerababu-g/budget-planner/logging"
)

var exportHeader = []string{
	"year", "month",
	"salary", "freelancing_one", "freelancing_two",
	"mobile_recharge", "wifi", "emi_one", "emi_two", "emi_three", "emi_four",
	"food", "rent", "creditcard_one", "creditcard_two", "shopping", "travel", "other_expenses",
	"sip", "fixed_deposit_one", "fixed_deposit_two", "etf",
	"income_total", "expense_total", "investment_total", "budget_balance",
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportBudget streams the user's fixed entries as a CSV download.
// Optional 'year' and 'month' query parameters narrow the export. This
// is a plain handler because it sets download headers and writes the
// body incrementally.
func (api *Api) ExportBudget(w http.ResponseWriter, r *http.Request) {
	ctx := contextutil.WithTraceID(r.Context())

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	userId, err := api.Auth.VerifyAccess(token)
	if err != nil {
		http.Error(w, fmt.Sprintf("authorization failed: %v", err), 401)
		return
	}

	params := r.URL.Query()
	yearFilter := 0
	monthFilter := 0
	if yearStr := params.Get("year"); yearStr != "" {
		if yearFilter, err = strconv.Atoi(yearStr); err != nil {
			http.Error(w, "invalid 'year' parameter", 400)
			return
		}
	}
	if monthStr := params.Get("month"); monthStr != "" {
		if monthFilter, err = strconv.Atoi(monthStr); err != nil {
			http.Error(w, "invalid 'month' parameter", 400)
			return
		}
	}

	entries, err := api.Planner.ListEntries(ctx, userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to export entries: %v", err), httpStatusFromError(err))
		return
	}

	filename := "budget_export.csv"
	if yearFilter != 0 {
		filename = fmt.Sprintf("budget_export_%d.csv", yearFilter)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		logging.Logger.Errorf("failed to write export header: %v", err)
		return
	}

	for _, entry := range entries {
		if yearFilter != 0 && entry.Year != yearFilter {
			continue
		}
		if monthFilter != 0 && entry.Month != monthFilter {
			continue
		}
		if err := writer.Write(exportRow(entry)); err != nil {
			logging.Logger.Errorf("failed to write export row: %v", err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logging.Logger.Errorf("failed to flush export: %v", err)
	}
}

func exportRow(entry budget.Entry) []string {
	income := entry.Salary + entry.FreelancingOne + entry.FreelancingTwo
	expenses := entry.MobileRecharge + entry.Wifi +
		entry.EmiOne + entry.EmiTwo + entry.EmiThree + entry.EmiFour +
		entry.Food + entry.Rent +
		entry.CreditcardOne + entry.CreditcardTwo +
		entry.Shopping + entry.Travel + entry.OtherExpenses
	investments := entry.Sip + entry.FixedDepositOne + entry.FixedDepositTwo + entry.Etf

	return []string{
		strconv.Itoa(entry.Year), strconv.Itoa(entry.Month),
		money(entry.Salary), money(entry.FreelancingOne), money(entry.FreelancingTwo),
		money(entry.MobileRecharge), money(entry.Wifi),
		money(entry.EmiOne), money(entry.EmiTwo), money(entry.EmiThree), money(entry.EmiFour),
		money(entry.Food), money(entry.Rent),
		money(entry.CreditcardOne), money(entry.CreditcardTwo),
		money(entry.Shopping), money(entry.Travel), money(entry.OtherExpenses),
		money(entry.Sip), money(entry.FixedDepositOne), money(entry.FixedDepositTwo), money(entry.Etf),
		money(income), money(expenses), money(investments),
		money(income - expenses - investments),
	}
}
