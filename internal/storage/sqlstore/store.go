// Package sqlstore implements the storage.Provider queries once for every SQL
// backend. Queries are written with ? placeholders and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/utils"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ErrNotLoaded is returned when a query is issued before Init or Load.
var ErrNotLoaded = stderrors.New("storage not loaded")

// Store runs the shared queries. Every call is bounded by timeout when it is positive.
type Store struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

func New(dialect Dialect, timeout time.Duration) *Store {
	return &Store{dialect: dialect, timeout: timeout}
}

// Attach sets the connection used for queries.
func (s *Store) Attach(db *sql.DB) {
	s.db = db
}

// DB returns the underlying connection, or nil before Init/Load.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) check(op string) error {
	if s == nil || s.db == nil {
		return apperrors.Persistence(op, ErrNotLoaded)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// rebind converts ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, op, query string, args ...interface{}) (sql.Result, error) {
	if err := s.check(op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, apperrors.Persistence(op, err)
	}
	return res, nil
}

// execOne runs a statement that must touch exactly one existing row.
func (s *Store) execOne(ctx context.Context, op, what, id, query string, args ...interface{}) error {
	res, err := s.exec(ctx, op, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence(op, err)
	}
	if n == 0 {
		return apperrors.NotFound(op, what, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// queryRow runs a single-row query and hands the row to scan.
func (s *Store) queryRow(ctx context.Context, op, what, id string, scan func(scanner) error, query string, args ...interface{}) error {
	if err := s.check(op); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := scan(s.db.QueryRowContext(ctx, s.rebind(query), args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(op, what, id)
	}
	if err != nil {
		return apperrors.Persistence(op, err)
	}
	return nil
}

// queryRows runs a query and hands each row to scan.
func (s *Store) queryRows(ctx context.Context, op string, scan func(scanner) error, query string, args ...interface{}) error {
	if err := s.check(op); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return apperrors.Persistence(op, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return apperrors.Persistence(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.Persistence(op, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: utils.FormatTimestamp(*t), Valid: true}
}

func ts(t time.Time) string {
	return utils.FormatTimestamp(t)
}

func parseTS(s string) (time.Time, error) {
	return utils.ParseTimestamp(s)
}
