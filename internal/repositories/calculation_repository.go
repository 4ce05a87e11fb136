package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "pearlcard/internal/config"
	intdb "pearlcard/internal/db"
	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
)

const (
	resultsTable  = "calculation_results"
	journeysTable = "calculation_journeys"
)

var schemaDDL = map[intdb.Dialect][]string{
	intdb.MySQL: {`
CREATE TABLE IF NOT EXISTS calculation_results (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	total_fare DOUBLE NOT NULL DEFAULT 0,
	journey_count INT NOT NULL DEFAULT 0,
	calculated_at DATETIME NOT NULL,
	KEY idx_user_calculated (user_id, calculated_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS calculation_journeys (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	result_id VARCHAR(36) NOT NULL,
	journey_number INT NOT NULL,
	from_zone VARCHAR(10) NOT NULL,
	to_zone VARCHAR(10) NOT NULL,
	fare DOUBLE NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL,
	error_message VARCHAR(255) NOT NULL DEFAULT '',
	UNIQUE KEY uniq_result_journey (result_id, journey_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	intdb.Postgres: {`
CREATE TABLE IF NOT EXISTS calculation_results (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	total_fare DOUBLE PRECISION NOT NULL DEFAULT 0,
	journey_count INT NOT NULL DEFAULT 0,
	calculated_at TIMESTAMPTZ NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS idx_user_calculated ON calculation_results (user_id, calculated_at)`, `
CREATE TABLE IF NOT EXISTS calculation_journeys (
	id BIGSERIAL PRIMARY KEY,
	result_id VARCHAR(36) NOT NULL,
	journey_number INT NOT NULL,
	from_zone VARCHAR(10) NOT NULL,
	to_zone VARCHAR(10) NOT NULL,
	fare DOUBLE PRECISION NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL,
	error_message VARCHAR(255) NOT NULL DEFAULT '',
	UNIQUE (result_id, journey_number)
)`},
}

// CalculationRepository stores submitted journey forms and their fares so the
// results page can be reopened and printed.
type CalculationRepository struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

func (r CalculationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CalculationRepository) dialect() intdb.Dialect {
	if r.Dialect != "" {
		return r.Dialect
	}
	return intdb.DialectFor(intconfig.Driver)
}

func (r CalculationRepository) q(query string) string {
	return intdb.Rebind(r.dialect(), query)
}

// EnsureSchema creates the tables when they are missing.
func (r CalculationRepository) EnsureSchema(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	d := r.dialect()
	if intdb.HasTable(ctx, db, d, resultsTable) && intdb.HasTable(ctx, db, d, journeysTable) {
		return nil
	}
	for _, ddl := range schemaDDL[d] {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create calculation schema: %w", err)
		}
	}
	return nil
}

// Save writes the result and its journeys in one transaction.
func (r CalculationRepository) Save(ctx context.Context, res models.CalculationResult) error {
	if strings.TrimSpace(res.ID) == "" {
		return domain.ValidationError{Field: "id", Msg: "required"}
	}
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, r.q(`
		INSERT INTO calculation_results (id, user_id, total_fare, journey_count, calculated_at)
		VALUES (?, ?, ?, ?, ?)`),
		res.ID, res.UserID, res.TotalFare, res.JourneyCount, res.CalculatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert calculation result: %w", err)
	}

	stmt := r.q(`
		INSERT INTO calculation_journeys (result_id, journey_number, from_zone, to_zone, fare, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, j := range res.Journeys {
		if _, err := tx.ExecContext(ctx, stmt,
			res.ID, j.JourneyNumber, j.FromZone, j.ToZone, j.Fare, j.Status, intdb.NullIfEmpty(j.ErrorMessage),
		); err != nil {
			return fmt.Errorf("insert journey %d: %w", j.JourneyNumber, err)
		}
	}

	return tx.Commit()
}

// GetByID loads a result with its journeys in journey number order.
func (r CalculationRepository) GetByID(ctx context.Context, id string) (models.CalculationResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.CalculationResult{}, domain.ValidationError{Field: "id", Msg: "required"}
	}
	db := r.db()
	if db == nil {
		return models.CalculationResult{}, fmt.Errorf("db not available")
	}

	var res models.CalculationResult
	err := db.QueryRowContext(ctx, r.q(`
		SELECT id, user_id, total_fare, journey_count, calculated_at
		FROM calculation_results
		WHERE id=? LIMIT 1`), id).Scan(
		&res.ID,
		&res.UserID,
		&res.TotalFare,
		&res.JourneyCount,
		&res.CalculatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CalculationResult{}, domain.NotFoundError{Resource: "calculation result", Err: err}
		}
		return models.CalculationResult{}, err
	}

	errCol := "''"
	if intdb.HasColumn(ctx, db, r.dialect(), journeysTable, "error_message") {
		errCol = "COALESCE(error_message, '')"
	}
	rows, err := db.QueryContext(ctx, r.q(`
		SELECT journey_number, from_zone, to_zone, fare, status, `+errCol+`
		FROM calculation_journeys
		WHERE result_id=?
		ORDER BY journey_number ASC`), id)
	if err != nil {
		return models.CalculationResult{}, err
	}
	defer rows.Close()

	res.Journeys = []models.JourneyFare{}
	for rows.Next() {
		var j models.JourneyFare
		if err := rows.Scan(&j.JourneyNumber, &j.FromZone, &j.ToZone, &j.Fare, &j.Status, &j.ErrorMessage); err != nil {
			return models.CalculationResult{}, err
		}
		res.Journeys = append(res.Journeys, j)
	}
	if err := rows.Err(); err != nil {
		return models.CalculationResult{}, err
	}
	res.CalculatedAt = res.CalculatedAt.UTC()
	return res, nil
}

// ListByUser returns result summaries, newest first. Journeys are not loaded.
func (r CalculationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.CalculationResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ValidationError{Field: "user_id", Msg: "required"}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	db := r.db()
	if db == nil {
		return nil, fmt.Errorf("db not available")
	}

	rows, err := db.QueryContext(ctx, r.q(`
		SELECT id, user_id, total_fare, journey_count, calculated_at
		FROM calculation_results
		WHERE user_id=?
		ORDER BY calculated_at DESC, id DESC
		LIMIT ?`), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CalculationResult{}
	for rows.Next() {
		var res models.CalculationResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.TotalFare, &res.JourneyCount, &res.CalculatedAt); err != nil {
			return nil, err
		}
		res.CalculatedAt = res.CalculatedAt.UTC()
		res.Journeys = []models.JourneyFare{}
		out = append(out, res)
	}
	return out, rows.Err()
}
