package cache

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"sync/atomic"
)

// countingDriver records prepares and closes of statements.
type countingDriver struct {
	prepared atomic.Int64
	closed   atomic.Int64
}

type countingConn struct{ d *countingDriver }

type countingStmt struct{ d *countingDriver }

func (d *countingDriver) Open(string) (driver.Conn, error) { return &countingConn{d: d}, nil }

func (c *countingConn) Prepare(string) (driver.Stmt, error) {
	c.d.prepared.Add(1)
	return &countingStmt{d: c.d}, nil
}

func (c *countingConn) Close() error              { return nil }
func (c *countingConn) Begin() (driver.Tx, error) { return nil, driver.ErrSkip }

func (s *countingStmt) Close() error {
	s.d.closed.Add(1)
	return nil
}

func (s *countingStmt) NumInput() int { return -1 }
func (s *countingStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(0), nil
}
func (s *countingStmt) Query([]driver.Value) (driver.Rows, error) { return nil, driver.ErrSkip }

var (
	driverSeq  atomic.Uint64
	registerMu sync.Mutex
)

// openCounting registers a fresh driver so counters are per test.
func openCounting() (*sql.DB, *countingDriver, error) {
	registerMu.Lock()
	defer registerMu.Unlock()
	d := &countingDriver{}
	name := fmt.Sprintf("qb-counting-%d", driverSeq.Add(1))
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	return db, d, err
}
