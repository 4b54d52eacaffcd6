package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/0xcafe-io/iz"
	"github.com/veerababu-g/budget-planner/internal/analytics"
	"github.com/veerababu-g/budget-planner/internal/contextutil"
)

func tracedContext(r *iz.Request) context.Context {
	return contextutil.WithTraceID(r.Context())
}

// TrendsHandler aggregates the months of [from, to] into one series.
// Both bounds are "YYYY-MM" and inclusive.
func (api *Api) TrendsHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	params := r.URL.Query()
	from, err := analytics.ParsePeriod(params.Get("from"))
	if err != nil {
		msg := fmt.Sprintf("invalid 'from' parameter: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	to, err := analytics.ParsePeriod(params.Get("to"))
	if err != nil {
		msg := fmt.Sprintf("invalid 'to' parameter: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	series, err := api.Analytics.Aggregate(ctx, userId, from, to)
	if err != nil {
		msg := fmt.Sprintf("failed to aggregate trends: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := TrendsResponse{
		From:      from.String(),
		To:        to.String(),
		Snapshots: snapshotsToHttp(series.Snapshots),
	}
	return iz.Respond().Status(200).JSON(resp)
}

// YearlyChartHandler aggregates January through December of one year,
// one snapshot per month with gap months zero-filled, plus the year
// summary the charts page shows above the graph.
func (api *Api) YearlyChartHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return iz.Respond().Status(400).Text("invalid 'year' path parameter")
	}

	series, err := api.Analytics.Aggregate(ctx, userId,
		analytics.Period{Year: year, Month: 1},
		analytics.Period{Year: year, Month: 12})
	if err != nil {
		msg := fmt.Sprintf("failed to aggregate yearly chart: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := YearlyChartResponse{
		Year:    year,
		Months:  snapshotsToHttp(series.Snapshots),
		Summary: series.Summarize(year),
	}
	return iz.Respond().Status(200).JSON(resp)
}

// MonthlyAnalysisHandler returns one month with its month-over-month
// and year-over-year comparison points plus the year-to-date summary.
// The range aggregated behind the scenes runs from the same month one
// year earlier, so both comparisons come from a single series.
func (api *Api) MonthlyAnalysisHandler(r *iz.Request) iz.Responder {
	ctx := tracedContext(r)

	userId, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return iz.Respond().Status(400).Text("invalid 'year' path parameter")
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		return iz.Respond().Status(400).Text("invalid 'month' path parameter")
	}

	current := analytics.Period{Year: year, Month: month}
	series, err := api.Analytics.Aggregate(ctx, userId, current.PriorYear(), current)
	if err != nil {
		msg := fmt.Sprintf("failed to aggregate monthly analysis: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	snapshot := series.At(current)
	resp := MonthlyAnalysisResponse{
		Current:    snapshotToHttp(*snapshot),
		YearToDate: series.Summarize(year),
	}
	if prev := previousOf(series, current); prev != nil {
		item := snapshotToHttp(*prev)
		resp.Previous = &item
	}
	if yoy := series.YearOverYear(current); yoy != nil {
		item := snapshotToHttp(*yoy)
		resp.YearOverYear = &item
	}
	return iz.Respond().Status(200).JSON(resp)
}

func previousOf(series *analytics.TrendSeries, p analytics.Period) *analytics.Snapshot {
	if p.Month == 1 {
		return series.At(analytics.Period{Year: p.Year - 1, Month: 12})
	}
	return series.At(analytics.Period{Year: p.Year, Month: p.Month - 1})
}
