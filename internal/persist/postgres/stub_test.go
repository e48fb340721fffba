package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
)

// stubConn is a minimal database/sql driver that understands the handful of
// statements Slot issues.
type stubConn struct {
	mu    sync.Mutex
	execs []string
	rows  map[string][]byte
}

type stubConnector struct{ conn *stubConn }

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c stubConnector) Driver() driver.Driver                         { return stubDriver{c.conn} }

type stubDriver struct{ conn *stubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{rows: map[string][]byte{}}
	return sql.OpenDB(stubConnector{conn: conn}), conn
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{conn: c, query: query}, nil
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type stubStmt struct {
	conn  *stubConn
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	s.conn.execs = append(s.conn.execs, s.query)
	if strings.HasPrefix(strings.TrimSpace(s.query), "INSERT INTO storage_slots") {
		name, _ := args[0].(string)
		payload, _ := args[1].(string)
		s.conn.rows[name] = []byte(payload)
	}
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	name, _ := args[0].(string)
	payload, ok := s.conn.rows[name]
	if !ok {
		return &stubRows{}, nil
	}
	return &stubRows{values: [][]byte{payload}}, nil
}

type stubRows struct {
	values [][]byte
	pos    int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }
func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.pos]
	r.pos++
	return nil
}

func overrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}
