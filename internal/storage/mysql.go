package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/veerababu-g/budget-planner/internal/auth"
	"github.com/veerababu-g/budget-planner/internal/budget"
	"github.com/veerababu-g/budget-planner/internal/contextutil"
	"github.com/veerababu-g/budget-planner/logging"
)

// --- INIT START --- //

func Init() (*sql.DB, error) {
	var db *sql.DB
	var err error

	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname := os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "budget_planner"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err = sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		if err := applyMigration(db, migrationFile, string(migrationContent)); err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)

	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")

	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}

		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// --- auth.Storage ---

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO user (id, username, hashed_password, created_at) VALUES (?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHashed, user.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: username already taken", appErrors.ErrConflict)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save user | Error: %v", traceID, err)
		return fmt.Errorf("%w: registration failed, try again later", appErrors.ErrInternal)
	}
	return nil
}

func (mySql *MySQLStorage) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var user auth.User
	query := "SELECT id, username, hashed_password, created_at FROM user WHERE username = ?;"
	err := mySql.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHashed, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return auth.User{}, fmt.Errorf("%w: user %q", appErrors.ErrNotFound, username)
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get user by username | Error: %v", traceID, err)
		return auth.User{}, fmt.Errorf("%w: failed to get user, try again later", appErrors.ErrInternal)
	}
	return user, nil
}

func (mySql *MySQLStorage) IsUserExists(ctx context.Context, username string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM user WHERE username = ?);"
	if err := mySql.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check user existence | Error: %v", traceID, err)
		return false, fmt.Errorf("%w: failed to check user existence", appErrors.ErrInternal)
	}
	return exists, nil
}

func (mySql *MySQLStorage) SaveRefreshToken(ctx context.Context, token auth.RefreshToken) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO refresh_token (id, user_id, token, expires_at, created_at, is_revoked) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt, token.Revoked)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save refresh token | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to save refresh token", appErrors.ErrInternal)
	}
	return nil
}

func (mySql *MySQLStorage) GetRefreshToken(ctx context.Context, token string) (auth.RefreshToken, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var record auth.RefreshToken
	query := "SELECT id, user_id, token, expires_at, created_at, is_revoked FROM refresh_token WHERE token = ?;"
	err := mySql.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID, &record.UserID, &record.Token, &record.ExpiresAt, &record.CreatedAt, &record.Revoked)
	if err == sql.ErrNoRows {
		return auth.RefreshToken{}, fmt.Errorf("%w: refresh token", appErrors.ErrNotFound)
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get refresh token | Error: %v", traceID, err)
		return auth.RefreshToken{}, fmt.Errorf("%w: failed to get refresh token", appErrors.ErrInternal)
	}
	return record, nil
}

func (mySql *MySQLStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "UPDATE refresh_token SET is_revoked = TRUE WHERE token = ?;", token)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to revoke refresh token | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to revoke refresh token", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: refresh token", appErrors.ErrNotFound)
	}
	return nil
}

// --- budget.Storage ---

const entryColumns = `id, user_id, year, month,
	salary, freelancing_one, freelancing_two,
	mobile_recharge, wifi, emi_one, emi_two, emi_three, emi_four,
	food, rent, creditcard_one, creditcard_two, shopping, travel, other_expenses,
	sip, fixed_deposit_one, fixed_deposit_two, etf,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (budget.Entry, error) {
	var e budget.Entry
	err := row.Scan(
		&e.ID, &e.UserID, &e.Year, &e.Month,
		&e.Salary, &e.FreelancingOne, &e.FreelancingTwo,
		&e.MobileRecharge, &e.Wifi, &e.EmiOne, &e.EmiTwo, &e.EmiThree, &e.EmiFour,
		&e.Food, &e.Rent, &e.CreditcardOne, &e.CreditcardTwo, &e.Shopping, &e.Travel, &e.OtherExpenses,
		&e.Sip, &e.FixedDepositOne, &e.FixedDepositTwo, &e.Etf,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (mySql *MySQLStorage) SaveEntry(ctx context.Context, entry budget.Entry) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO budget_entry (` + entryColumns + `) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := mySql.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Year, entry.Month,
		entry.Salary, entry.FreelancingOne, entry.FreelancingTwo,
		entry.MobileRecharge, entry.Wifi, entry.EmiOne, entry.EmiTwo, entry.EmiThree, entry.EmiFour,
		entry.Food, entry.Rent, entry.CreditcardOne, entry.CreditcardTwo, entry.Shopping, entry.Travel, entry.OtherExpenses,
		entry.Sip, entry.FixedDepositOne, entry.FixedDepositTwo, entry.Etf,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: entry for %d-%02d already exists", appErrors.ErrConflict, entry.Year, entry.Month)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save budget entry | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to save the entry, try again later", appErrors.ErrInternal)
	}
	return nil
}

func (mySql *MySQLStorage) GetEntry(ctx context.Context, userID string, year, month int) (*budget.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT ` + entryColumns + ` FROM budget_entry WHERE user_id = ? AND year = ? AND month = ?;`
	entry, err := scanEntry(mySql.db.QueryRowContext(ctx, query, userID, year, month))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget entry | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to get the entry, try again later", appErrors.ErrInternal)
	}
	return &entry, nil
}

func (mySql *MySQLStorage) GetEntryByID(ctx context.Context, userID string, entryID string) (budget.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT ` + entryColumns + ` FROM budget_entry WHERE id = ? AND user_id = ?;`
	entry, err := scanEntry(mySql.db.QueryRowContext(ctx, query, entryID, userID))
	if err == sql.ErrNoRows {
		return budget.Entry{}, fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entryID)
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget entry by id | Error: %v", traceID, err)
		return budget.Entry{}, fmt.Errorf("%w: failed to get the entry, try again later", appErrors.ErrInternal)
	}
	return entry, nil
}

func (mySql *MySQLStorage) UpdateEntry(ctx context.Context, entry budget.Entry) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE budget_entry SET
		salary = ?, freelancing_one = ?, freelancing_two = ?,
		mobile_recharge = ?, wifi = ?, emi_one = ?, emi_two = ?, emi_three = ?, emi_four = ?,
		food = ?, rent = ?, creditcard_one = ?, creditcard_two = ?, shopping = ?, travel = ?, other_expenses = ?,
		sip = ?, fixed_deposit_one = ?, fixed_deposit_two = ?, etf = ?,
		updated_at = ?
		WHERE id = ? AND user_id = ?;`
	res, err := mySql.db.ExecContext(ctx, query,
		entry.Salary, entry.FreelancingOne, entry.FreelancingTwo,
		entry.MobileRecharge, entry.Wifi, entry.EmiOne, entry.EmiTwo, entry.EmiThree, entry.EmiFour,
		entry.Food, entry.Rent, entry.CreditcardOne, entry.CreditcardTwo, entry.Shopping, entry.Travel, entry.OtherExpenses,
		entry.Sip, entry.FixedDepositOne, entry.FixedDepositTwo, entry.Etf,
		entry.UpdatedAt,
		entry.ID, entry.UserID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update budget entry | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update the entry, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entry.ID)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM budget_entry WHERE id = ? AND user_id = ?;", entryID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete budget entry | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete the entry, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: budget entry %q", appErrors.ErrNotFound, entryID)
	}
	return nil
}

func (mySql *MySQLStorage) ListEntries(ctx context.Context, userID string) ([]budget.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT ` + entryColumns + ` FROM budget_entry WHERE user_id = ? ORDER BY year DESC, month DESC;`
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list budget entries | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list entries, try again later", appErrors.ErrInternal)
	}
	defer rows.Close()

	var entries []budget.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan budget entry | Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: failed to list entries, try again later", appErrors.ErrInternal)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (mySql *MySQLStorage) ListEntryYears(ctx context.Context, userID string) ([]int, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := mySql.db.QueryContext(ctx,
		"SELECT DISTINCT year FROM budget_entry WHERE user_id = ? ORDER BY year DESC;", userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list entry years | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list entry years", appErrors.ErrInternal)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("%w: failed to list entry years", appErrors.ErrInternal)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

func (mySql *MySQLStorage) SaveVariableExpense(ctx context.Context, expense budget.VariableExpense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO variable_expense (id, user_id, year, month, category, description, amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := mySql.db.ExecContext(ctx, query,
		expense.ID, expense.UserID, expense.Year, expense.Month, expense.Category,
		expense.Description, expense.Amount, string(expense.Status), expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save variable expense | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to save the expense, try again later", appErrors.ErrInternal)
	}
	return nil
}

func scanVariableExpense(row rowScanner) (budget.VariableExpense, error) {
	var e budget.VariableExpense
	var status string
	err := row.Scan(&e.ID, &e.UserID, &e.Year, &e.Month, &e.Category, &e.Description, &e.Amount, &status, &e.CreatedAt, &e.UpdatedAt)
	e.Status = budget.ExpenseStatus(status)
	return e, err
}

func (mySql *MySQLStorage) GetVariableExpenseByID(ctx context.Context, userID string, expenseID string) (budget.VariableExpense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT id, user_id, year, month, category, description, amount, status, created_at, updated_at
		FROM variable_expense WHERE id = ? AND user_id = ?;`
	expense, err := scanVariableExpense(mySql.db.QueryRowContext(ctx, query, expenseID, userID))
	if err == sql.ErrNoRows {
		return budget.VariableExpense{}, fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expenseID)
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get variable expense | Error: %v", traceID, err)
		return budget.VariableExpense{}, fmt.Errorf("%w: failed to get the expense, try again later", appErrors.ErrInternal)
	}
	return expense, nil
}

func (mySql *MySQLStorage) ListVariableExpenses(ctx context.Context, userID string, year, month int) ([]budget.VariableExpense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT id, user_id, year, month, category, description, amount, status, created_at, updated_at
		FROM variable_expense WHERE user_id = ? AND year = ? AND month = ? ORDER BY created_at;`
	rows, err := mySql.db.QueryContext(ctx, query, userID, year, month)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list variable expenses | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list expenses, try again later", appErrors.ErrInternal)
	}
	defer rows.Close()

	var expenses []budget.VariableExpense
	for rows.Next() {
		expense, err := scanVariableExpense(rows)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan variable expense | Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: failed to list expenses, try again later", appErrors.ErrInternal)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (mySql *MySQLStorage) UpdateVariableExpense(ctx context.Context, expense budget.VariableExpense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE variable_expense SET description = ?, amount = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?;`
	res, err := mySql.db.ExecContext(ctx, query,
		expense.Description, expense.Amount, string(expense.Status), expense.UpdatedAt, expense.ID, expense.UserID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update variable expense | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update the expense, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expense.ID)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteVariableExpense(ctx context.Context, userID string, expenseID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM variable_expense WHERE id = ? AND user_id = ?;", expenseID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete variable expense | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete the expense, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: variable expense %q", appErrors.ErrNotFound, expenseID)
	}
	return nil
}

func (mySql *MySQLStorage) MarkExpensesFinalized(ctx context.Context, userID string, expenseIDs []string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	if len(expenseIDs) == 0 {
		return nil
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start finalize transaction | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to finalize expenses, try again later", appErrors.ErrInternal)
	}
	for _, id := range expenseIDs {
		_, err := txn.ExecContext(ctx,
			"UPDATE variable_expense SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?;",
			string(budget.StatusFinalized), time.Now().UTC(), id, userID)
		if err != nil {
			txn.Rollback()
			logging.Logger.Errorf("[TraceID=%s] | failed to finalize variable expense | Error: %v", traceID, err)
			return fmt.Errorf("%w: failed to finalize expenses, try again later", appErrors.ErrInternal)
		}
	}
	return txn.Commit()
}

func (mySql *MySQLStorage) SaveBucketItem(ctx context.Context, item budget.BucketItem) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO bucket_item (id, user_id, name, category, price, description, priority, target_date, is_completed, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := mySql.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Name, item.Category, item.Price, item.Description,
		item.Priority, item.TargetDate, item.IsCompleted, item.CreatedAt, item.CompletedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save bucket item | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to save the item, try again later", appErrors.ErrInternal)
	}
	return nil
}

func scanBucketItem(row rowScanner) (budget.BucketItem, error) {
	var item budget.BucketItem
	var completedAt sql.NullTime
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Category, &item.Price,
		&item.Description, &item.Priority, &item.TargetDate, &item.IsCompleted, &item.CreatedAt, &completedAt)
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}
	return item, err
}

func (mySql *MySQLStorage) GetBucketItemByID(ctx context.Context, userID string, itemID string) (budget.BucketItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT id, user_id, name, category, price, description, priority, target_date, is_completed, created_at, completed_at
		FROM bucket_item WHERE id = ? AND user_id = ?;`
	item, err := scanBucketItem(mySql.db.QueryRowContext(ctx, query, itemID, userID))
	if err == sql.ErrNoRows {
		return budget.BucketItem{}, fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, itemID)
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get bucket item | Error: %v", traceID, err)
		return budget.BucketItem{}, fmt.Errorf("%w: failed to get the item, try again later", appErrors.ErrInternal)
	}
	return item, nil
}

func (mySql *MySQLStorage) ListBucketItems(ctx context.Context, userID string) ([]budget.BucketItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT id, user_id, name, category, price, description, priority, target_date, is_completed, created_at, completed_at
		FROM bucket_item WHERE user_id = ? ORDER BY created_at DESC;`
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list bucket items | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list items, try again later", appErrors.ErrInternal)
	}
	defer rows.Close()

	var items []budget.BucketItem
	for rows.Next() {
		item, err := scanBucketItem(rows)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan bucket item | Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: failed to list items, try again later", appErrors.ErrInternal)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (mySql *MySQLStorage) UpdateBucketItem(ctx context.Context, item budget.BucketItem) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE bucket_item SET name = ?, category = ?, price = ?, description = ?, priority = ?,
		target_date = ?, is_completed = ?, completed_at = ? WHERE id = ? AND user_id = ?;`
	res, err := mySql.db.ExecContext(ctx, query,
		item.Name, item.Category, item.Price, item.Description, item.Priority,
		item.TargetDate, item.IsCompleted, item.CompletedAt, item.ID, item.UserID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update bucket item | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update the item, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, item.ID)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteBucketItem(ctx context.Context, userID string, itemID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM bucket_item WHERE id = ? AND user_id = ?;", itemID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete bucket item | Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete the item, try again later", appErrors.ErrInternal)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: bucket item %q", appErrors.ErrNotFound, itemID)
	}
	return nil
}

// --- analytics.EntryStore ---

// GetFixedEntry distinguishes "no entry for this month" (nil, nil) from
// "this user does not exist" and from a read failure, because the
// analytics engine treats all three differently.
func (mySql *MySQLStorage) GetFixedEntry(ctx context.Context, userID string, year, month int) (*budget.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT ` + entryColumns + ` FROM budget_entry WHERE user_id = ? AND year = ? AND month = ?;`
	entry, err := scanEntry(mySql.db.QueryRowContext(ctx, query, userID, year, month))
	if err == sql.ErrNoRows {
		var exists bool
		if err := mySql.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM user WHERE id = ?);", userID).Scan(&exists); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to resolve user for analytics read | Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrStoreUnavailable, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: user %q", appErrors.ErrUnknownUser, userID)
		}
		return nil, nil
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read fixed entry for analytics | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStoreUnavailable, err)
	}
	return &entry, nil
}

func (mySql *MySQLStorage) GetVariableEntries(ctx context.Context, userID string, year, month int) ([]budget.VariableExpense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	expenses, err := mySql.ListVariableExpenses(ctx, userID, year, month)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read variable entries for analytics | Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStoreUnavailable, err)
	}
	return expenses, nil
}
