// Package store provides scenario persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"quantpricer/internal/errors"
	"quantpricer/internal/models"
)

// SQLiteStore implements ScenarioStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based scenario store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Scenarios table for logged pricing computations
	CREATE TABLE IF NOT EXISTS scenarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		spot REAL NOT NULL,
		strike REAL NOT NULL,
		rate REAL NOT NULL,
		expiry REAL NOT NULL,
		sigma REAL NOT NULL,
		option_type TEXT NOT NULL,
		price REAL NOT NULL,
		delta REAL,
		gamma REAL,
		vega REAL,
		theta REAL,
		rho REAL,
		market_price REAL,
		implied_vol REAL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_timestamp ON scenarios(timestamp);
	CREATE INDEX IF NOT EXISTS idx_scenarios_option_type ON scenarios(option_type);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScenario appends a scenario record and fills in its assigned ID.
func (s *SQLiteStore) SaveScenario(ctx context.Context, scenario *models.Scenario) error {
	if scenario.Timestamp.IsZero() {
		scenario.Timestamp = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO scenarios (
			timestamp, spot, strike, rate, expiry, sigma, option_type, price,
			delta, gamma, vega, theta, rho, market_price, implied_vol, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		scenario.Timestamp, scenario.Spot, scenario.Strike, scenario.Rate,
		scenario.Expiry, scenario.Sigma, scenario.OptionType, scenario.Price,
		nullable(scenario.Delta), nullable(scenario.Gamma), nullable(scenario.Vega),
		nullable(scenario.Theta), nullable(scenario.Rho),
		nullable(scenario.MarketPrice), nullable(scenario.ImpliedVol), scenario.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scenario: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read scenario id: %w", err)
	}
	scenario.ID = id
	return nil
}

// GetScenarios retrieves logged scenarios matching the filter, newest first.
func (s *SQLiteStore) GetScenarios(ctx context.Context, filter ScenarioFilter) ([]models.Scenario, error) {
	query := `
		SELECT id, timestamp, spot, strike, rate, expiry, sigma, option_type, price,
		       delta, gamma, vega, theta, rho, market_price, implied_vol, notes
		FROM scenarios
	`
	var conditions []string
	var args []interface{}

	if filter.OptionType != "" {
		conditions = append(conditions, "option_type = ?")
		args = append(args, filter.OptionType)
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *scenario)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}

	return scenarios, nil
}

// GetScenarioByID retrieves a single scenario by its assigned ID.
func (s *SQLiteStore) GetScenarioByID(ctx context.Context, id int64) (*models.Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, spot, strike, rate, expiry, sigma, option_type, price,
		       delta, gamma, vega, theta, rho, market_price, implied_vol, notes
		FROM scenarios WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading scenario: %w", err)
		}
		return nil, errors.Wrapf(errors.ErrDataNotFound, "scenario %d", id)
	}
	return scanScenario(rows)
}

func scanScenario(rows *sql.Rows) (*models.Scenario, error) {
	var scenario models.Scenario
	var delta, gamma, vega, theta, rho, marketPrice, impliedVol sql.NullFloat64
	var notes sql.NullString

	err := rows.Scan(
		&scenario.ID, &scenario.Timestamp, &scenario.Spot, &scenario.Strike,
		&scenario.Rate, &scenario.Expiry, &scenario.Sigma, &scenario.OptionType,
		&scenario.Price, &delta, &gamma, &vega, &theta, &rho,
		&marketPrice, &impliedVol, &notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenario: %w", err)
	}

	scenario.Delta = floatPtr(delta)
	scenario.Gamma = floatPtr(gamma)
	scenario.Vega = floatPtr(vega)
	scenario.Theta = floatPtr(theta)
	scenario.Rho = floatPtr(rho)
	scenario.MarketPrice = floatPtr(marketPrice)
	scenario.ImpliedVol = floatPtr(impliedVol)
	scenario.Notes = notes.String

	return &scenario, nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
