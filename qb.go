// Package qb builds SQL statements from composable parts and runs them
// through database/sql.
//
// Every fragment (expressions, columns, tables, joins and whole statements)
// renders to SQL text plus its own parameter set, so fragments can be nested
// freely and their parameters follow them. Placeholders are written as "?" or
// ":name" and rewritten for the target driver when a statement is bound.
//
// The generic builders here render ANSI SQL. The mysql and postgres
// subpackages add dialect-specific modifiers, paging, locking, set operations
// and upserts on top of them.
//
//	q := qb.NewSelect("id", "name").
//	    From("users").
//	    Where("age > ?", 18).
//	    OrderBy("name", "ASC")
//
//	db, err := qb.Open("sqlite", "app.db", qb.WithLogger(slog.Default()))
//	rows, err := db.Query(ctx, q)
package qb

import (
	"github.com/coregx/qb/internal/analyzer"
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/logger"
	"github.com/coregx/qb/internal/optimizer"
	"github.com/coregx/qb/internal/params"
	"github.com/coregx/qb/internal/runner"
	"github.com/coregx/qb/internal/security"
	"github.com/coregx/qb/internal/tracer"
)

type (
	// QueryPart is anything that renders to SQL with parameters.
	QueryPart = core.QueryPart
	// Statement is a complete statement.
	Statement = core.Statement
	// SubQuery marks statements that are parenthesized when nested.
	SubQuery = core.SubQuery
	// Expr is an immutable SQL fragment with bound parameters.
	Expr = core.Expr
	// Template joins parts into a format string.
	Template = core.Template

	Column       = core.Column
	Table        = core.Table
	QueryAsTable = core.QueryAsTable
	Join         = core.Join
	JoinType     = core.JoinType

	QueryBuilder = core.QueryBuilder
	Select       = core.Select
	Insert       = core.Insert
	Update       = core.Update
	Delete       = core.Delete
	Truncate     = core.Truncate

	// Error is the error type returned by builders.
	Error = core.Error

	// Param is a normalized bind value.
	Param = params.Param
	// ParamSet is the ordered parameter list of a rendered part.
	ParamSet = params.Set
	BindType = params.BindType
	Policy   = params.Policy
	Typed    = params.Typed
	Batch    = params.Batch
	NamedArg = params.NamedArg

	// DB runs statements on a connection pool.
	DB = runner.DB
	// Tx runs statements in a transaction.
	Tx = runner.Tx
	// Option configures a DB.
	Option     = runner.Option
	Conn       = runner.Conn
	Bound      = runner.Bound
	Row        = runner.Row
	QueryEvent = runner.QueryEvent
	QueryHook  = runner.QueryHook

	// Plan summarizes an EXPLAIN result.
	Plan      = analyzer.Plan
	Validator = security.Validator
	Sanitizer = logger.Sanitizer
	Tracer    = tracer.Tracer
	// Suggestion is an index or tuning recommendation from DB.Advise.
	Suggestion = optimizer.Suggestion
)

// Bind types and policies.
const (
	BindNull   = params.Null
	BindBool   = params.Bool
	BindInt    = params.Int
	BindString = params.String
	BindBinary = params.Binary

	Auto        = params.Auto
	ForceString = params.ForceString
	Manual      = params.Manual
)

// Join types.
const (
	InnerJoin = core.InnerJoin
	LeftJoin  = core.LeftJoin
	RightJoin = core.RightJoin
	FullJoin  = core.FullJoin
)

// Errors. Builder errors match one of the first three with errors.Is.
var (
	ErrInvalidArgument = core.ErrInvalidArgument
	ErrLogic           = core.ErrLogic
	ErrNotReady        = core.ErrNotReady
	ErrMixedParams     = params.ErrMixedParams
	ErrSuspicious      = security.ErrSuspicious
	ErrUnsupported     = analyzer.ErrUnsupported
	ErrNoPool          = runner.ErrNoPool
	ErrTxDone          = runner.ErrTxDone
)

// Builders and fragments.
var (
	NewQueryBuilder = core.NewQueryBuilder
	NewSelect       = core.NewSelect
	NewInsert       = core.NewInsert
	NewUpdate       = core.NewUpdate
	NewDelete       = core.NewDelete
	NewTruncate     = core.NewTruncate

	NewExpr           = core.NewExpr
	NewExprPolicy     = core.NewExprPolicy
	MustExpr          = core.MustExpr
	Raw               = core.Raw
	NewSuperExpr      = core.NewSuperExpr
	NewSuperExprToken = core.NewSuperExprToken
	NewTemplate       = core.NewTemplate

	Col             = core.Col
	ColAs           = core.ColAs
	NewColumn       = core.NewColumn
	NewTable        = core.NewTable
	NewQueryAsTable = core.NewQueryAsTable
	NewJoin         = core.NewJoin

	Build = core.Build
	Named = params.Named
	As    = params.As
)

// Execution.
var (
	Open         = runner.Open
	OpenMySQL    = runner.OpenMySQL
	OpenPostgres = runner.OpenPostgres
	WrapDB       = runner.New

	WithLogger             = runner.WithLogger
	WithSanitizer          = runner.WithSanitizer
	WithTracer             = runner.WithTracer
	WithQueryHook          = runner.WithQueryHook
	WithValidator          = runner.WithValidator
	WithStmtCacheCapacity  = runner.WithStmtCacheCapacity
	WithMaxOpenConns       = runner.WithMaxOpenConns
	WithMaxIdleConns       = runner.WithMaxIdleConns
	WithSlowQueryThreshold = runner.WithSlowQueryThreshold

	NewValidator     = security.NewValidator
	StrictValidation = security.WithStrict
	NewSanitizer     = logger.NewSanitizer
	NewOtelTracer    = tracer.NewOtel
)
