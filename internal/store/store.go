package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/alexiusacademia/gopanel/internal/panel"
	_ "github.com/lib/pq"
)

// ErrNoDatabase is returned when no connection string is configured
var ErrNoDatabase = errors.New("no database configured")

// Run is the persisted summary of one panel analysis
type Run struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Nodes           int       `json:"nodes"`
	Elements        int       `json:"elements"`
	MaxDisplacement float64   `json:"max_displacement"`
	CriticalFI      *float64  `json:"critical_fi"` // nil when not finite
	CreatedAt       time.Time `json:"created_at"`
}

// NewRun summarises a panel result.
func NewRun(res *panel.Result) Run {
	run := Run{
		Name:            res.Name,
		Nodes:           res.NNodes,
		Elements:        res.NElements,
		MaxDisplacement: res.MaxDisplacement,
	}
	if fi := res.CriticalFI(); !math.IsInf(fi, 0) && !math.IsNaN(fi) {
		run.CriticalFI = &fi
	}
	return run
}

// Repository stores panel runs
type Repository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) (int64, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DSN appends sslmode=disable to a connection string that sets no mode.
func DSN(connStr string) string {
	if connStr == "" || strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=disable"
		}
		return connStr + "?sslmode=disable"
	}
	return connStr + " sslmode=disable"
}

// Open connects to PostgreSQL and checks the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, ErrNoDatabase
	}
	db, err := sql.Open("postgres", DSN(connStr))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `CREATE TABLE IF NOT EXISTS panel_runs (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	nodes INTEGER NOT NULL,
	elements INTEGER NOT NULL,
	max_displacement DOUBLE PRECISION NOT NULL,
	critical_fi DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) SaveRun(ctx context.Context, run Run) (int64, error) {
	var id int64
	query := "INSERT INTO panel_runs (name, nodes, elements, max_displacement, critical_fi) VALUES ($1, $2, $3, $4, $5) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, run.Name, run.Nodes, run.Elements, run.MaxDisplacement, run.CriticalFI).Scan(&id)
	return id, err
}

// ListRuns returns the latest runs first. A non-positive limit means 20.
func (r *PostgresRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := "SELECT id, name, nodes, elements, max_displacement, critical_fi, created_at FROM panel_runs ORDER BY created_at DESC, id DESC LIMIT $1"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var fi sql.NullFloat64
		if err := rows.Scan(&run.ID, &run.Name, &run.Nodes, &run.Elements, &run.MaxDisplacement, &fi, &run.CreatedAt); err != nil {
			return nil, err
		}
		if fi.Valid {
			v := fi.Float64
			run.CriticalFI = &v
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
