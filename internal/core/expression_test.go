package core

import (
	"testing"

	"github.com/coregx/qb/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSQL(t *testing.T, p QueryPart) string {
	t.Helper()
	sql, err := p.SQL()
	require.NoError(t, err)
	return sql
}

func pos(values ...any) params.Set {
	out := make(params.Set, len(values))
	for i, v := range values {
		out[i] = params.Param{Value: v, Type: params.Detect(v)}
	}
	return out
}

func TestNewExpr_Positional(t *testing.T) {
	tests := []struct {
		name       string
		sql        string
		args       []any
		wantSQL    string
		wantParams params.Set
	}{
		{
			name:    "no params",
			sql:     "age > 18 AND status = 'active'",
			wantSQL: "age > 18 AND status = 'active'",
		},
		{
			name:       "scalars",
			sql:        "age > ? AND status = ?",
			args:       []any{18, "active"},
			wantSQL:    "age > ? AND status = ?",
			wantParams: pos(18, "active"),
		},
		{
			name:    "batch expands",
			sql:     "foo IN (?)",
			args:    []any{[]string{"bar", "baz"}},
			wantSQL: "foo IN (?, ?)",
			wantParams: params.Set{
				{Value: "bar", Type: params.String},
				{Value: "baz", Type: params.String},
			},
		},
		{
			name:       "batch between scalars",
			sql:        "a = ? AND b IN (?) AND c = ?",
			args:       []any{1, params.Batch{2, 3, 4}, true},
			wantSQL:    "a = ? AND b IN (?, ?, ?) AND c = ?",
			wantParams: pos(1, 2, 3, 4, true),
		},
		{
			name:       "single element batch",
			sql:        "id IN (?)",
			args:       []any{[]int{7}},
			wantSQL:    "id IN (?)",
			wantParams: pos(7),
		},
		{
			name:       "null",
			sql:        "deleted_at IS NOT DISTINCT FROM ?",
			args:       []any{nil},
			wantSQL:    "deleted_at IS NOT DISTINCT FROM ?",
			wantParams: params.Set{{Value: nil, Type: params.Null}},
		},
		{
			name:       "named marker stays literal",
			sql:        "a = ? AND b = :b",
			args:       []any{1},
			wantSQL:    "a = ? AND b = :b",
			wantParams: pos(1),
		},
		{
			name:       "typed value",
			sql:        "a = ?",
			args:       []any{params.As("5", params.Int)},
			wantSQL:    "a = ?",
			wantParams: params.Set{{Value: "5", Type: params.Int}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExpr(tt.sql, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, mustSQL(t, e))
			assert.Equal(t, tt.wantParams, e.Params())
			assert.Equal(t, len(e.Params()), CountPlaceholders(mustSQL(t, e)))
		})
	}
}

func TestNewExpr_Named(t *testing.T) {
	t.Run("batch expands with suffixes", func(t *testing.T) {
		e, err := NewExpr("foo IN (:x)", params.Named("x", []int{1, 2}))
		require.NoError(t, err)
		assert.Equal(t, "foo IN (:x_0, :x_1)", mustSQL(t, e))
		assert.Equal(t, params.Set{
			{Name: "x_0", Value: 1, Type: params.Int},
			{Name: "x_1", Value: 2, Type: params.Int},
		}, e.Params())
	})

	t.Run("every occurrence expands", func(t *testing.T) {
		e, err := NewExpr("a IN (:x) OR b IN (:x)", params.Named("x", params.Batch{"p", "q"}))
		require.NoError(t, err)
		assert.Equal(t, "a IN (:x_0, :x_1) OR b IN (:x_0, :x_1)", mustSQL(t, e))
		assert.Len(t, e.Params(), 2)
	})

	t.Run("insertion order", func(t *testing.T) {
		e, err := NewExpr("b = :b AND a = :a",
			params.Named("a", 1),
			params.Named("b", "two"),
		)
		require.NoError(t, err)
		assert.Equal(t, "b = :b AND a = :a", mustSQL(t, e))
		assert.Equal(t, []string{"a", "b"}, e.Params().Names())
		assert.Equal(t, params.String, e.Params()[1].Type)
	})

	t.Run("question mark is literal", func(t *testing.T) {
		e, err := NewExpr("data ? 'key' AND id = :id", params.Named("id", 3))
		require.NoError(t, err)
		assert.Equal(t, "data ? 'key' AND id = :id", mustSQL(t, e))
	})
}

func TestNewExpr_Errors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		args []any
		kind error
	}{
		{"mixed styles", "a = ? AND b = :b", []any{1, params.Named("b", 2)}, ErrInvalidArgument},
		{"unknown name", "a = :a", []any{params.Named("b", 1)}, ErrInvalidArgument},
		{"invalid name", "a = :a", []any{params.Named("1a", 1)}, ErrInvalidArgument},
		{"duplicate name", "a = :a", []any{params.Named("a", 1), params.Named("a", 2)}, ErrInvalidArgument},
		{"too many params", "a = ?", []any{1, 2}, ErrLogic},
		{"too few params", "a = ? AND b = ?", []any{1}, ErrLogic},
		{"placeholder without params", "a = ?", nil, ErrLogic},
		{"non-scalar", "a = ?", []any{map[string]int{}}, ErrInvalidArgument},
		{"non-scalar in batch", "a IN (?)", []any{params.Batch{1, struct{}{}}}, ErrInvalidArgument},
		{"nested batch", "a IN (?)", []any{params.Batch{[]int{1}}}, ErrInvalidArgument},
		{"empty batch", "a IN (?)", []any{[]int{}}, ErrInvalidArgument},
		{"expansion collision", "a IN (:x) AND b = :x_0", []any{params.Named("x", []int{1}), params.Named("x_0", 2)}, ErrInvalidArgument},
		{"expansion captures unbound marker", "a IN (:x) OR b = :x_0", []any{params.Named("x", []int{1, 2})}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExpr(tt.sql, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestNewExprPolicy(t *testing.T) {
	t.Run("force string", func(t *testing.T) {
		e, err := NewExprPolicy(params.ForceString, "a = ? AND b IN (?)", 1, []bool{true})
		require.NoError(t, err)
		assert.Equal(t, params.Set{
			{Value: 1, Type: params.String},
			{Value: true, Type: params.String},
		}, e.Params())
	})

	t.Run("manual", func(t *testing.T) {
		e, err := NewExprPolicy(params.Manual, "a = ? AND b IN (?)",
			params.As(1, params.String),
			params.Batch{params.As("x", params.Binary), params.As(2, params.Int)},
		)
		require.NoError(t, err)
		assert.Equal(t, "a = ? AND b IN (?, ?)", mustSQL(t, e))
		assert.Equal(t, params.Set{
			{Value: 1, Type: params.String},
			{Value: "x", Type: params.Binary},
			{Value: 2, Type: params.Int},
		}, e.Params())
	})

	t.Run("manual rejects untyped", func(t *testing.T) {
		_, err := NewExprPolicy(params.Manual, "a = ?", 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, params.ErrUntyped)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := NewExprPolicy(params.Policy(9), "a = ?", 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestExpr_Immutable(t *testing.T) {
	e := MustExpr("a = ?", 1)
	ps := e.Params()
	ps[0].Value = 99
	assert.Equal(t, 1, e.Params()[0].Value)
}

func TestMustExpr_Panics(t *testing.T) {
	assert.Panics(t, func() { MustExpr("a = ?") })
}

func TestRaw(t *testing.T) {
	r := Raw("NOW() ? x")
	assert.Equal(t, "NOW() ? x", mustSQL(t, r))
	assert.Empty(t, r.Params())
}

func TestRaw_QuestionMarkInStatement(t *testing.T) {
	_, _, err := NewSelect(Raw("data ? 'k'")).From("t").ToSQL()
	assert.ErrorIs(t, err, ErrLogic)

	sql, ps, err := NewSelect(Raw("data ? 'k'")).From("t").
		Where("id = :id", params.Named("id", 1)).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT data ? 'k'\nFROM t\nWHERE id = :id", sql)
	assert.Equal(t, []string{"id"}, ps.Names())

	sql, _, err = NewSelect(Raw("jsonb_exists(data, 'k')")).From("t").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT jsonb_exists(data, 'k')\nFROM t", sql)
}

func TestNewSuperExpr(t *testing.T) {
	e, err := NewSuperExpr("col IN (??)", params.Batch{
		params.As("col", params.String),
		8,
		params.As(6, params.Int),
	})
	require.NoError(t, err)
	assert.Equal(t, "col IN (?, ?, ?)", mustSQL(t, e))
	assert.Equal(t, params.Set{
		{Value: "col", Type: params.String},
		{Value: 8, Type: params.Int},
		{Value: 6, Type: params.Int},
	}, e.Params())

	e, err = NewSuperExpr("a = ?? AND b IN (??)", 1, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "a = ? AND b IN (?, ?)", mustSQL(t, e))
	assert.Len(t, e.Params(), 3)

	e, err = NewSuperExprToken("@@", "a IN (@@)", params.Batch{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "a IN (?, ?)", mustSQL(t, e))

	_, err = NewSuperExpr("a IN (??)")
	assert.ErrorIs(t, err, ErrLogic)

	_, err = NewSuperExpr("a IN (??)", params.Batch{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewSuperExpr("a = ??", params.Named("a", 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTemplate(t *testing.T) {
	sub := NewSelect("id").From("orders").Where("total > ?", 100)
	tpl := NewTemplate("EXISTS (%s) AND %s", sub, MustExpr("status = ?", "paid"))

	sql, err := tpl.SQL()
	require.NoError(t, err)
	assert.Equal(t, "EXISTS (SELECT id\nFROM orders\nWHERE total > ?) AND status = ?", sql)
	assert.Equal(t, []any{100, "paid"}, tpl.Params().Values())

	_, err = NewTemplate("%s and %s", Raw("a")).SQL()
	assert.ErrorIs(t, err, ErrLogic)
}

func TestBuild(t *testing.T) {
	sql, ps, err := Build(MustExpr("a = ?", 1))
	require.NoError(t, err)
	assert.Equal(t, "a = ?", sql)
	assert.Len(t, ps, 1)

	mixed := NewTemplate("%s AND %s", MustExpr("a = ?", 1), MustExpr("b = :b", params.Named("b", 2)))
	_, _, err = Build(mixed)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, params.ErrMixedParams)

	_, _, err = Build(NewTemplate("%s AND c = ?", MustExpr("a = ?", 1)))
	assert.ErrorIs(t, err, ErrLogic)
}

func TestError_Message(t *testing.T) {
	_, err := NewExpr("a = ?", 1, 2)
	require.Error(t, err)
	assert.Equal(t, "qb: expr: logic error: 1 placeholders for 2 parameters", err.Error())
}
