package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/0xcafe-io/iz"
	"github.com/rs/cors"
	"github.com/veerababu-g/budget-planner/api"
	"github.com/veerababu-g/budget-planner/internal/analytics"
	"github.com/veerababu-g/budget-planner/internal/auth"
	"github.com/veerababu-g/budget-planner/internal/budget"
	"github.com/veerababu-g/budget-planner/internal/storage"
	"github.com/veerababu-g/budget-planner/logging"
)

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger: %w", err)
		return
	}

	logging.Logger.Info("application starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	storageInstance := storage.NewMySQLStorage(db)

	jwtSecret := os.Getenv("JWT_SECRET")
	refreshSecret := os.Getenv("REFRESH_SECRET")
	if jwtSecret == "" || refreshSecret == "" {
		logging.Logger.Error("JWT_SECRET and REFRESH_SECRET environment variables are required")
		return
	}

	authService := auth.NewService(storageInstance, jwtSecret, refreshSecret)
	planner := budget.NewBudgetPlanner(storageInstance)
	engine := analytics.NewEngine(storageInstance)

	server := http.NewServeMux()
	api := api.NewApi(planner, authService, engine)

	// USER ENDPOINTS.
	server.HandleFunc("POST /api/register", iz.Bind(api.RegisterHandler)) // Create User
	server.HandleFunc("POST /api/login", iz.Bind(api.LoginHandler))       // Login User
	server.HandleFunc("POST /api/refresh", iz.Bind(api.RefreshHandler))   // Refresh Access Token
	server.HandleFunc("POST /api/logout", iz.Bind(api.LogoutHandler))     // Logout User

	// ENTRY ENDPOINTS.
	server.HandleFunc("POST /api/entry", iz.Bind(api.SaveEntryHandler))           // Create Monthly Entry
	server.HandleFunc("GET /api/entry", iz.Bind(api.ListEntriesHandler))          // List Monthly Entries
	server.HandleFunc("GET /api/entry/years", iz.Bind(api.ListEntryYearsHandler)) // Years With Entries
	server.HandleFunc("PUT /api/entry/{id}", iz.Bind(api.UpdateEntryHandler))     // Update Monthly Entry
	server.HandleFunc("DELETE /api/entry/{id}", iz.Bind(api.DeleteEntryHandler))  // Delete Monthly Entry
	server.HandleFunc("GET /api/export/budget", api.ExportBudget)                 // Download Entries as CSV

	// VARIABLE EXPENSE ENDPOINTS.
	server.HandleFunc("POST /api/expense", iz.Bind(api.SaveVariableExpenseHandler))          // Create Draft Expense
	server.HandleFunc("GET /api/expense", iz.Bind(api.ListVariableExpensesHandler))          // List Expenses of Month
	server.HandleFunc("PUT /api/expense", iz.Bind(api.UpdateVariableExpenseHandler))         // Update Draft Expense
	server.HandleFunc("DELETE /api/expense/{id}", iz.Bind(api.DeleteVariableExpenseHandler)) // Delete Draft Expense
	server.HandleFunc("POST /api/expense/finalize", iz.Bind(api.FinalizeMonthHandler))       // Finalize Month

	// BUCKET LIST ENDPOINTS.
	server.HandleFunc("POST /api/bucket", iz.Bind(api.SaveBucketItemHandler))                   // Create Bucket Item
	server.HandleFunc("GET /api/bucket", iz.Bind(api.ListBucketItemsHandler))                   // List Bucket Items
	server.HandleFunc("PUT /api/bucket", iz.Bind(api.UpdateBucketItemHandler))                  // Update Bucket Item
	server.HandleFunc("POST /api/bucket/{id}/complete", iz.Bind(api.CompleteBucketItemHandler)) // Complete Bucket Item
	server.HandleFunc("DELETE /api/bucket/{id}", iz.Bind(api.DeleteBucketItemHandler))          // Delete Bucket Item

	// ANALYTICS ENDPOINTS.
	server.HandleFunc("GET /api/trends", iz.Bind(api.TrendsHandler))                          // Trend Series Over a Range
	server.HandleFunc("GET /api/yearly/{year}", iz.Bind(api.YearlyChartHandler))              // Yearly Chart Data
	server.HandleFunc("GET /api/monthly/{year}/{month}", iz.Bind(api.MonthlyAnalysisHandler)) // Monthly Analysis

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logging.Logger.Infof("server listening on port %s", port)

	handlerwithCors := corsConf.Handler(server)
	err = http.ListenAndServe(":"+port, handlerwithCors) // Start the server
	if err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
	}
}
