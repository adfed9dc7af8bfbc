// Package runner executes built statements through database/sql. It binds
// parameters for the connection's dialect and surrounds every call with
// validation, statement caching, logging, tracing and a query hook.
package runner

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/coregx/qb/internal/analyzer"
	"github.com/coregx/qb/internal/cache"
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/dialects"
	"github.com/coregx/qb/internal/logger"
	"github.com/coregx/qb/internal/optimizer"
	"github.com/coregx/qb/internal/security"
	"github.com/coregx/qb/internal/tracer"
	"github.com/coregx/qb/internal/util"
)

// Conn is the part of database/sql the runner executes on.
// *sql.DB, *sql.Tx and *sql.Conn satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// DB runs statements on a connection.
type DB struct {
	conn    Conn
	pool    *sql.DB // nil unless conn is a *sql.DB
	owned   bool
	dialect dialects.Dialect

	stmts     *cache.StmtCache
	cacheSize int
	maxOpen   int
	maxIdle   int

	logger    logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
	hook      QueryHook
	validator *security.Validator
	advisor   *optimizer.Advisor
	warnSlow  bool
}

// Option configures a DB.
type Option func(*DB)

// WithLogger logs statements through l. Successful statements are logged at
// debug level, failures at error level.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger.FromSlog(l)
	}
}

// WithSanitizer replaces the default sanitizer used to mask logged values.
func WithSanitizer(s *logger.Sanitizer) Option {
	return func(db *DB) {
		if s != nil {
			db.sanitizer = s
		}
	}
}

// WithTracer records a span for every statement.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		if t != nil {
			db.tracer = t
		}
	}
}

// WithQueryHook calls h after every statement.
func WithQueryHook(h QueryHook) Option {
	return func(db *DB) {
		db.hook = h
	}
}

// WithValidator rejects statements the validator flags before they reach
// the database.
func WithValidator(v *security.Validator) Option {
	return func(db *DB) {
		db.validator = v
	}
}

// WithSlowQueryThreshold logs a warning for statements slower than d.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(db *DB) {
		db.advisor = optimizer.New(d)
		db.warnSlow = true
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
// Zero disables the cache.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) {
		db.cacheSize = capacity
	}
}

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		db.maxOpen = n
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		db.maxIdle = n
	}
}

// New wraps an existing connection. driverName selects the dialect.
// The caller keeps ownership of conn: Close does not close it.
func New(conn Conn, driverName string, opts ...Option) (*DB, error) {
	d, err := dialects.Get(driverName)
	if err != nil {
		return nil, err
	}

	db := &DB{
		conn:      conn,
		dialect:   d,
		cacheSize: cache.DefaultCapacity,
		logger:    logger.Discard{},
		sanitizer: logger.NewSanitizer(),
		tracer:    tracer.Noop{},
		advisor:   optimizer.New(0),
	}
	if pool, ok := conn.(*sql.DB); ok {
		db.pool = pool
	}
	for _, opt := range opts {
		opt(db)
	}

	if db.pool != nil {
		if db.maxOpen > 0 {
			db.pool.SetMaxOpenConns(db.maxOpen)
		}
		if db.maxIdle > 0 {
			db.pool.SetMaxIdleConns(db.maxIdle)
		}
		if db.cacheSize > 0 {
			db.stmts = cache.New(db.cacheSize)
		}
	}
	return db, nil
}

// Open opens a pool for a registered database/sql driver.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	pool, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, WrapError(err, "open "+driverName)
	}
	return adopt(pool, driverName, opts)
}

// OpenMySQL opens a MySQL pool from a driver config.
func OpenMySQL(cfg *mysqldrv.Config, opts ...Option) (*DB, error) {
	connector, err := mysqldrv.NewConnector(cfg)
	if err != nil {
		return nil, WrapError(err, "open mysql")
	}
	return adopt(sql.OpenDB(connector), "mysql", opts)
}

// OpenPostgres opens a PostgreSQL pool from a libpq connection string.
func OpenPostgres(dsn string, opts ...Option) (*DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, WrapError(err, "open postgres")
	}
	return adopt(sql.OpenDB(connector), "postgres", opts)
}

func adopt(pool *sql.DB, driverName string, opts []Option) (*DB, error) {
	db, err := New(pool, driverName, opts...)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	db.owned = true
	return db, nil
}

// Dialect returns the dialect placeholders are bound for.
func (db *DB) Dialect() dialects.Dialect { return db.dialect }

// Stats returns statement cache statistics. It is zero when caching is off.
func (db *DB) Stats() cache.Stats {
	if db.stmts == nil {
		return cache.Stats{}
	}
	return db.stmts.Stats()
}

// Close releases cached statements and closes the pool if the DB opened it.
func (db *DB) Close() error {
	if db.stmts != nil {
		db.stmts.Clear()
	}
	if db.owned {
		return db.pool.Close()
	}
	return nil
}

// Bind binds part for the DB's dialect and runs the validator on it.
func (db *DB) Bind(part core.QueryPart) (Bound, error) {
	b, err := Bind(part, db.dialect)
	if err != nil {
		return Bound{}, err
	}
	if db.validator != nil {
		if err := db.validator.Validate(b.Rendered, b.Params); err != nil {
			return Bound{}, err
		}
	}
	return b, nil
}

// Exec runs a statement that returns no rows.
func (db *DB) Exec(ctx context.Context, part core.QueryPart) (sql.Result, error) {
	b, err := db.Bind(part)
	if err != nil {
		return nil, err
	}

	ctx, call := db.begin(ctx, b)
	var res sql.Result
	if stmt := db.prepared(ctx, b.SQL); stmt != nil {
		res, err = stmt.ExecContext(ctx, b.Args...)
	} else {
		res, err = db.conn.ExecContext(ctx, b.SQL, b.Args...)
	}

	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	call.end(affected, err)
	if err != nil {
		return nil, WrapError(err, "exec")
	}
	return res, nil
}

// Query runs a statement that returns rows. The caller closes them.
func (db *DB) Query(ctx context.Context, part core.QueryPart) (*sql.Rows, error) {
	b, err := db.Bind(part)
	if err != nil {
		return nil, err
	}

	ctx, call := db.begin(ctx, b)
	var rows *sql.Rows
	if stmt := db.prepared(ctx, b.SQL); stmt != nil {
		rows, err = stmt.QueryContext(ctx, b.Args...)
	} else {
		rows, err = db.conn.QueryContext(ctx, b.SQL, b.Args...)
	}
	call.end(0, err)
	if err != nil {
		return nil, WrapError(err, "query")
	}
	return rows, nil
}

// All runs part and appends every row to dest, a pointer to a slice of
// structs or struct pointers mapped by `db` tags.
func (db *DB) All(ctx context.Context, part core.QueryPart, dest any) error {
	rows, err := db.Query(ctx, part)
	if err != nil {
		return err
	}
	defer rows.Close()
	return util.ScanAll(rows, dest)
}

// One runs part and scans the first row into dest, a struct pointer.
// It returns sql.ErrNoRows when there is no row.
func (db *DB) One(ctx context.Context, part core.QueryPart, dest any) error {
	rows, err := db.Query(ctx, part)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return util.ScanRow(rows, dest)
}

// Row is the result of QueryRow. Errors from binding are returned by Scan.
type Row struct {
	row *sql.Row
	err error
}

// Scan copies the columns of the first row into dest.
// It returns sql.ErrNoRows when there is no row.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.row.Scan(dest...)
}

// Err returns the error, if any, that was encountered while running the query.
func (r *Row) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.row.Err()
}

// QueryRow runs a statement expected to return at most one row.
func (db *DB) QueryRow(ctx context.Context, part core.QueryPart) *Row {
	b, err := db.Bind(part)
	if err != nil {
		return &Row{err: err}
	}

	ctx, call := db.begin(ctx, b)
	var row *sql.Row
	if stmt := db.prepared(ctx, b.SQL); stmt != nil {
		row = stmt.QueryRowContext(ctx, b.Args...)
	} else {
		row = db.conn.QueryRowContext(ctx, b.SQL, b.Args...)
	}
	call.end(0, row.Err())
	return &Row{row: row}
}

// Explain runs EXPLAIN for part and summarizes the plan.
func (db *DB) Explain(ctx context.Context, part core.QueryPart) (*analyzer.Plan, error) {
	b, err := db.Bind(part)
	if err != nil {
		return nil, err
	}
	return analyzer.Explain(ctx, db.conn, db.dialect.Name(), b.SQL, b.Args)
}

// Advise explains part and returns index and tuning suggestions for it.
func (db *DB) Advise(ctx context.Context, part core.QueryPart) ([]optimizer.Suggestion, error) {
	b, err := db.Bind(part)
	if err != nil {
		return nil, err
	}
	plan, err := analyzer.Explain(ctx, db.conn, db.dialect.Name(), b.SQL, b.Args)
	if err != nil {
		return nil, err
	}
	return db.advisor.Advise(plan, b.Rendered, 0), nil
}

// prepared returns a cached statement for query, or nil when caching is off
// or preparing failed. A failed prepare falls back to a direct call, which
// reports the same error through the normal path.
func (db *DB) prepared(ctx context.Context, query string) *sql.Stmt {
	if db.stmts == nil {
		return nil
	}
	stmt, err := db.stmts.Prepare(ctx, query, db.pool.PrepareContext)
	if err != nil {
		db.logger.Debug("prepare failed", "sql", query, "error", err)
		return nil
	}
	return stmt
}

// call tracks one statement from start to finish.
type call struct {
	db    *DB
	ctx   context.Context
	span  tracer.Span
	bound Bound
	start time.Time
}

func (db *DB) begin(ctx context.Context, b Bound) (context.Context, *call) {
	op := tracer.Operation(b.SQL)
	ctx, span := db.tracer.Start(ctx, "qb."+strings.ToLower(op))
	return ctx, &call{db: db, ctx: ctx, span: span, bound: b, start: time.Now()}
}

func (c *call) end(affected int64, err error) {
	db := c.db
	elapsed := time.Since(c.start)
	op := tracer.Operation(c.bound.SQL)

	tracer.Annotate(c.span, tracer.Statement{
		SQL:          c.bound.SQL,
		Dialect:      db.dialect.Name(),
		Params:       len(c.bound.Args),
		Duration:     elapsed,
		RowsAffected: affected,
		Err:          err,
	})
	c.span.End()

	masked := db.sanitizer.MaskParams(c.bound.Rendered, c.bound.Params)
	if err != nil {
		db.logger.Error("query failed",
			"op", op,
			"sql", c.bound.SQL,
			"params", logger.FormatParams(masked),
			"duration", elapsed,
			"error", err)
	} else {
		db.logger.Debug("query",
			"op", op,
			"sql", c.bound.SQL,
			"params", logger.FormatParams(masked),
			"duration", elapsed,
			"rows_affected", affected)
	}

	if db.warnSlow {
		if s, ok := db.advisor.Slow(elapsed); ok {
			db.logger.Warn("slow query", "op", op, "sql", c.bound.SQL, "detail", s.Message)
		}
	}

	if db.hook != nil {
		db.hook(c.ctx, QueryEvent{
			SQL:          c.bound.SQL,
			Args:         masked,
			Operation:    op,
			Duration:     elapsed,
			RowsAffected: affected,
			Error:        err,
		})
	}
}
