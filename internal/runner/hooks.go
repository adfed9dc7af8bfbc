package runner

import (
	"context"
	"errors"
	"time"
)

// Errors returned by the runner.
var (
	// ErrNoPool is returned when an operation needs the *sql.DB pool but the
	// runner wraps a transaction or a single connection.
	ErrNoPool = errors.New("operation requires a connection pool")
	// ErrTxDone is returned when a transaction is used after Commit or Rollback.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
)

// QueryEvent describes one executed statement.
type QueryEvent struct {
	SQL          string
	Args         []any // masked by the sanitizer
	Operation    string
	Duration     time.Duration
	RowsAffected int64
	Error        error
}

// QueryHook is called after every statement, including failed ones.
//
//	db, _ := runner.Open("sqlite", dsn,
//	    runner.WithQueryHook(func(ctx context.Context, e runner.QueryEvent) {
//	        metrics.Observe(e.Operation, e.Duration)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

// WrapError adds message as context to err. It returns nil for a nil err.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: message, err: err}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *wrappedError) Unwrap() error { return e.err }
