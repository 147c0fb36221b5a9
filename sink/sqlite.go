package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/weiihann/taipan/harness"
)

const createBenchmarks = `CREATE TABLE IF NOT EXISTS benchmarks (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	key               TEXT    NOT NULL,
	kind              TEXT    NOT NULL,
	workload_size     INTEGER NOT NULL,
	workers           INTEGER NOT NULL,
	single_core_time  REAL    NOT NULL,
	multi_core_time   REAL    NOT NULL,
	single_core_score INTEGER NOT NULL,
	multi_core_score  INTEGER NOT NULL,
	speedup           REAL    NOT NULL,
	efficiency        REAL    NOT NULL,
	cpu_utilization   REAL    NOT NULL,
	value             REAL    NOT NULL,
	cpu_model         TEXT    NOT NULL,
	os_info           TEXT    NOT NULL,
	hostname          TEXT    NOT NULL,
	created_at        TEXT    NOT NULL
)`

const insertBenchmark = `INSERT INTO benchmarks (
	key, kind, workload_size, workers,
	single_core_time, multi_core_time, single_core_score, multi_core_score,
	speedup, efficiency, cpu_utilization, value,
	cpu_model, os_info, hostname, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite appends each record as a row of a local benchmarks table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the
// benchmarks table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, createBenchmarks); err != nil {
		db.Close()
		return nil, fmt.Errorf("create benchmarks table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Send(ctx context.Context, r harness.Result) error {
	_, err := s.db.ExecContext(ctx, insertBenchmark,
		r.Key, string(r.Kind), r.WorkloadSize, r.Workers,
		r.SingleCoreTime, r.MultiCoreTime, r.SingleCoreScore, r.MultiCoreScore,
		r.Speedup, r.Efficiency, r.CPUUtilization, r.Value,
		r.CPUModel, r.OSInfo, r.Hostname, r.Time.Format("2006-01-02T15:04:05.000Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("insert benchmark: %w", err)
	}

	return nil
}

// Count returns the number of stored rows for kind, or all rows when kind
// is empty.
func (s *SQLite) Count(ctx context.Context, kind string) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM benchmarks WHERE ? = '' OR kind = ?`, kind, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count benchmarks: %w", err)
	}

	return n, nil
}

func (s *SQLite) Close() error { return s.db.Close() }
