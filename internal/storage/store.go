package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rentdesk/internal/core"
	"rentdesk/internal/log"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row the caller named does not exist.
var ErrNotFound = errors.New("not found")

// Store is the SQLite layer behind the development backend and the audit
// worker.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

func NewStore(dbPath string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentStorage})
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ListResidents(ctx context.Context) ([]core.Resident, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone FROM residents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	defer rows.Close()

	out := []core.Resident{}
	for rows.Next() {
		var id int64
		var r core.Resident
		if err := rows.Scan(&id, &r.FirstName, &r.LastName, &r.Email, &r.Phone); err != nil {
			return nil, fmt.Errorf("scan resident: %w", err)
		}
		r.ResidentID = float64(id)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteResident(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM residents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "Resident deleted", "resident_id", id)
	return nil
}

func (s *Store) ListUnits(ctx context.Context) ([]core.Unit, error) {
	return s.listUnits(ctx,
		`SELECT id, unit_number, floorplan, bedrooms, bathrooms, square_feet, status, market_rent
		 FROM units ORDER BY id`)
}

func (s *Store) ListAvailableUnits(ctx context.Context) ([]core.Unit, error) {
	return s.listUnits(ctx,
		`SELECT id, unit_number, floorplan, bedrooms, bathrooms, square_feet, status, market_rent
		 FROM units WHERE status = 'vacant' ORDER BY id`)
}

func (s *Store) listUnits(ctx context.Context, query string) ([]core.Unit, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	out := []core.Unit{}
	for rows.Next() {
		var id int64
		var beds, baths, sqft, rent sql.NullFloat64
		var u core.Unit
		if err := rows.Scan(&id, &u.UnitNumber, &u.Floorplan, &beds, &baths, &sqft, &u.Status, &rent); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		u.UnitID = float64(id)
		u.Bedrooms = nullableNum(beds)
		u.Bathrooms = nullableNum(baths)
		u.SquareFeet = nullableNum(sqft)
		u.MarketRent = nullableNum(rent)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) ListPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lease_id, unit_id, amount, method, paid_date, period_month, period_year, status
		 FROM payments ORDER BY paid_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := []core.Payment{}
	for rows.Next() {
		var id int64
		var lease, unit, amount sql.NullFloat64
		var month, year sql.NullInt64
		var p core.Payment
		if err := rows.Scan(&id, &lease, &unit, &amount, &p.Method, &p.PaidDate, &month, &year, &p.Status); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.PaymentID = float64(id)
		p.LeaseID = nullableNum(lease)
		p.UnitID = nullableNum(unit)
		p.Amount = nullableNum(amount)
		p.PeriodMonth = nullableInt(month)
		p.PeriodYear = nullableInt(year)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreatePayment(ctx context.Context, np core.NewPayment) (core.Payment, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (lease_id, amount, method, paid_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		np.LeaseID, np.Amount, np.Method, np.PaidDate, np.Status)
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	s.logger.InfoContext(ctx, "Payment created", "payment_id", id, "method", np.Method)
	return core.Payment{
		PaymentID: float64(id),
		LeaseID:   np.LeaseID,
		Amount:    np.Amount,
		Method:    np.Method,
		PaidDate:  np.PaidDate,
		Status:    np.Status,
	}, nil
}

// InsertPaymentAudit records a payment event consumed from the queue.
func (s *Store) InsertPaymentAudit(ctx context.Context, paymentID string, amount any, method, paidDate, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_audit (payment_id, amount, method, paid_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		paymentID, amount, method, paidDate, status)
	if err != nil {
		return fmt.Errorf("insert payment audit: %w", err)
	}
	return nil
}

// CountPaymentAudit reports the audit trail size.
func (s *Store) CountPaymentAudit(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payment_audit`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payment audit: %w", err)
	}
	return n, nil
}

// SeedDemoData loads a small portfolio when the tables are empty. Reseeding
// a populated database is a no-op.
func (s *Store) SeedDemoData(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units`).Scan(&n); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	residents := [][4]string{
		{"Maria", "Santos", "maria.santos@example.com", "555-0101"},
		{"James", "Okafor", "james.okafor@example.com", "555-0102"},
		{"Lena", "Virtanen", "lena.virtanen@example.com", "555-0103"},
		{"Derek", "Hall", "derek.hall@example.com", ""},
	}
	for _, r := range residents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO residents (first_name, last_name, email, phone) VALUES (?, ?, ?, ?)`,
			r[0], r[1], r[2], r[3]); err != nil {
			return fmt.Errorf("seed residents: %w", err)
		}
	}

	units := []struct {
		number, floorplan string
		beds, baths, sqft any
		status            string
		rent              any
	}{
		{"101", "A1", 1.0, 1.0, 650.0, "occupied", 1250.0},
		{"102", "A1", 1.0, 1.0, 650.0, "vacant", 1250.0},
		{"103", "B2", 2.0, 2.0, 980.0, "occupied", 1495.0},
		{"201", "B2", 2.0, 2.0, 980.0, "occupied", 1525.0},
		{"202", "C3", 3.0, 2.0, 1240.0, "maintenance", 1895.0},
		{"203", "C3", 3.0, 2.0, 1240.0, "vacant", nil},
	}
	for _, u := range units {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO units (unit_number, floorplan, bedrooms, bathrooms, square_feet, status, market_rent)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.number, u.floorplan, u.beds, u.baths, u.sqft, u.status, u.rent); err != nil {
			return fmt.Errorf("seed units: %w", err)
		}
	}

	payments := []struct {
		lease, unit any
		amount      any
		method      string
		paidDate    string
		month, year any
		status      string
	}{
		{1.0, 1.0, 1250.0, "ach", "2026-08-01", 8, 2026, "posted"},
		{2.0, 3.0, 1495.0, "check", "2026-08-03", 8, 2026, "posted"},
		{3.0, 4.0, 1525.0, "card", "2026-08-05", 8, 2026, "posted"},
		{1.0, 1.0, 1250.0, "ach", "2026-07-01", 7, 2026, "posted"},
		{2.0, 3.0, nil, "cash", "2026-07-02", 7, 2026, "pending"},
	}
	for _, p := range payments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (lease_id, unit_id, amount, method, paid_date, period_month, period_year, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.lease, p.unit, p.amount, p.method, p.paidDate, p.month, p.year, p.status); err != nil {
			return fmt.Errorf("seed payments: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	s.logger.InfoContext(ctx, "Demo data seeded",
		"residents", len(residents), "units", len(units), "payments", len(payments))
	return nil
}

func nullableNum(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullableInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return float64(v.Int64)
}
