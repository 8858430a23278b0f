package submission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/tbxark/calltaker/state"
	_ "modernc.org/sqlite"
)

const createComplaintsTable = `CREATE TABLE IF NOT EXISTS complaints (
	id          TEXT PRIMARY KEY,
	complaint   TEXT NOT NULL,
	phone       TEXT NOT NULL,
	address     TEXT NOT NULL,
	customer    TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`

// SQLiteSink records complaints in a SQLite database.
type SQLiteSink struct {
	db  *sql.DB
	now func() time.Time
}

// Record is a stored complaint.
type Record struct {
	Ack
	Complaint
}

// NewSQLiteSink opens dsn and creates the complaints table if needed.
func NewSQLiteSink(ctx context.Context, dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createComplaintsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create complaints table: %w", err)
	}
	return &SQLiteSink{db: db, now: time.Now}, nil
}

func (s *SQLiteSink) Submit(ctx context.Context, c Complaint) (Ack, error) {
	customer, err := sonic.MarshalString(c.Customer)
	if err != nil {
		return Ack{}, fmt.Errorf("%w: encode customer: %w", ErrSubmission, err)
	}
	ack := Ack{ReferenceID: uuid.NewString(), RecordedAt: s.now().UTC()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO complaints (id, complaint, phone, address, customer, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ack.ReferenceID, c.Text, c.Phone, c.Address, customer, ack.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Ack{}, fmt.Errorf("%w: insert complaint: %w", ErrSubmission, err)
	}
	return ack, nil
}

// ListByPhone returns the complaints recorded for phone, oldest first.
func (s *SQLiteSink) ListByPhone(ctx context.Context, phone string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, complaint, phone, address, customer, recorded_at FROM complaints WHERE phone = ? ORDER BY recorded_at`,
		phone,
	)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			customer   string
			recordedAt string
		)
		if err := rows.Scan(&r.ReferenceID, &r.Text, &r.Phone, &r.Address, &customer, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		var data state.CustomerData
		if err := sonic.UnmarshalString(customer, &data); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		r.Customer = data
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

var _ Sink = (*SQLiteSink)(nil)
