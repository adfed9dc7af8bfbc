package core

import (
	"testing"

	"github.com/coregx/qb/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		sql, ps, err := NewInsert("users").Columns("name", "age").Values("alice", 30).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (name, age)\nVALUES (?, ?)", sql)
		assert.Equal(t, params.Set{
			{Value: "alice", Type: params.String},
			{Value: 30, Type: params.Int},
		}, ps)
	})

	t.Run("rows are row-major", func(t *testing.T) {
		ins := NewInsert("users").
			Columns("name", "age", "created_at").
			Values("a", 1, Raw("DEFAULT")).
			Values("b", nil, MustExpr("NOW() - ?", "1 day"))
		sql, ps, err := ins.ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (name, age, created_at)\nVALUES (?, ?, DEFAULT),\n(?, ?, NOW() - ?)", sql)
		assert.Equal(t, []any{"a", 1, "b", nil, "1 day"}, ps.Values())
		assert.Equal(t, params.Null, ps[3].Type)
		assert.Len(t, ins.Rows(), 2)
		assert.Equal(t, []any{"a", 1, Raw("DEFAULT")}, ins.Rows()[0])
	})

	t.Run("without columns", func(t *testing.T) {
		sql, err := NewInsert("t").Values(1, 2).Values(3, 4).SQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO t\nVALUES (?, ?),\n(?, ?)", sql)
	})

	t.Run("from select", func(t *testing.T) {
		sub := NewSelect("id", "name").From("staging").Where("ok = ?", true)
		sql, ps, err := NewInsert("users").Columns("id", "name").Select(sub).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (id, name)\nSELECT id, name\nFROM staging\nWHERE ok = ?", sql)
		assert.Equal(t, []any{true}, ps.Values())
	})

	t.Run("modifier", func(t *testing.T) {
		sql, err := NewInsert("t").Modifier("IGNORE").Values(1).SQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT IGNORE INTO t\nVALUES (?)", sql)
	})
}

func TestInsert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Insert
		kind  error
	}{
		{"no table", func() *Insert { return NewInsert(nil).Values(1) }, ErrNotReady},
		{"no values", func() *Insert { return NewInsert("t").Columns("a") }, ErrNotReady},
		{"too many values", func() *Insert { return NewInsert("t").Columns("a").Values(1, 2) }, ErrInvalidArgument},
		{"too few values", func() *Insert { return NewInsert("t").Columns("a", "b").Values(1) }, ErrInvalidArgument},
		{"ragged rows", func() *Insert { return NewInsert("t").Values(1, 2).Values(3) }, ErrInvalidArgument},
		{"columns after rows", func() *Insert { return NewInsert("t").Values(1, 2).Columns("a") }, ErrInvalidArgument},
		{"empty row", func() *Insert { return NewInsert("t").Values() }, ErrInvalidArgument},
		{"batch value", func() *Insert { return NewInsert("t").Values([]int{1, 2}) }, ErrInvalidArgument},
		{"values then select", func() *Insert { return NewInsert("t").Values(1).Select(NewSelect("1")) }, ErrInvalidArgument},
		{"select then values", func() *Insert { return NewInsert("t").Select(NewSelect("1")).Values(1) }, ErrInvalidArgument},
		{"bad table", func() *Insert { return NewInsert(5) }, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().SQL()
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestUpdate(t *testing.T) {
	u := NewUpdate("users").
		Set("name", "bob").
		Set("visits", MustExpr("visits + ?", 1)).
		Where("id = ?", 7)

	sql, ps, err := u.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users\nSET name = ?, visits = visits + ?\nWHERE id = ?", sql)
	assert.Equal(t, []any{"bob", 1, 7}, ps.Values())
	assert.Equal(t, []any{"bob", MustExpr("visits + ?", 1)}, u.Values())
}

func TestUpdate_SetMapSorted(t *testing.T) {
	sql, ps, err := NewUpdate("t").
		SetMap(map[string]any{"c": 3, "a": 1, "b": 2}).
		Where("id = ?", 9).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE t\nSET a = ?, b = ?, c = ?\nWHERE id = ?", sql)
	assert.Equal(t, []any{1, 2, 3, 9}, ps.Values())
}

func TestUpdate_RequiresAllParts(t *testing.T) {
	u := NewUpdate("users").Set("name", "x")
	_, err := u.SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	u.Where("id = ?", 1)
	sql, err := u.SQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users\nSET name = ?\nWHERE id = ?", sql)

	_, err = NewUpdate("users").Where("id = 1").SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = NewUpdate("a").Table("b").Set("x", 1).Where("id = 1").SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = NewUpdate("a").Set("x", 1).Set("x", 2).Where("id = 1").SQL()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDelete(t *testing.T) {
	sql, ps, err := NewDelete("sessions").Where("expires_at < ?", "2024-01-01").Where("user_id = ?", 3).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM sessions\nWHERE expires_at < ? AND user_id = ?", sql)
	assert.Equal(t, []any{"2024-01-01", 3}, ps.Values())
}

func TestDelete_FullTablePolicy(t *testing.T) {
	d := NewDelete("sessions")
	_, err := d.SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	sql, err := d.AllowFullTable().SQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM sessions", sql)

	_, err = NewDelete(nil).Where("id = 1").SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = NewDelete("a").From("b").Where("id = 1").SQL()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestTruncate(t *testing.T) {
	sql, ps, err := NewTruncate("a", NewTable("b", "x")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "TRUNCATE a, b", sql)
	assert.Empty(t, ps)

	_, err = NewTruncate().SQL()
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = NewTruncate(MustExpr("x")).SQL()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestQueryBuilder(t *testing.T) {
	b := NewQueryBuilder()
	stmts := []struct {
		stmt Statement
		want string
	}{
		{b.Select("1").From("dual"), "SELECT 1\nFROM dual"},
		{b.Insert("t").Values(1), "INSERT INTO t\nVALUES (?)"},
		{b.Update("t").Set("a", 1).Where("id = 2"), "UPDATE t\nSET a = ?\nWHERE id = 2"},
		{b.Delete("t").Where("id = 2"), "DELETE FROM t\nWHERE id = 2"},
		{b.Truncate("t"), "TRUNCATE t"},
	}
	for _, s := range stmts {
		sql, _, err := s.stmt.ToSQL()
		require.NoError(t, err)
		assert.Equal(t, s.want, sql)
		assert.NoError(t, s.stmt.Err())
	}
}

func TestStatements_TypedNilArguments(t *testing.T) {
	var (
		expr  *Expr
		table *Table
		sub   *Select
	)
	tests := []struct {
		name  string
		build func() QueryPart
		err   func(QueryPart) error
	}{
		{"insert value", func() QueryPart { return NewInsert("t").Columns("a").Values(expr) }, func(p QueryPart) error { return p.(*Insert).Err() }},
		{"insert select", func() QueryPart { return NewInsert("t").Select(sub) }, func(p QueryPart) error { return p.(*Insert).Err() }},
		{"insert table", func() QueryPart { return NewInsert(table) }, func(p QueryPart) error { return p.(*Insert).Err() }},
		{"update set", func() QueryPart { return NewUpdate("t").Set("a", expr) }, func(p QueryPart) error { return p.(*Update).Err() }},
		{"update where", func() QueryPart { return NewUpdate("t").Set("a", 1).Where(expr) }, func(p QueryPart) error { return p.(*Update).Err() }},
		{"delete where", func() QueryPart { return NewDelete("t").Where(expr) }, func(p QueryPart) error { return p.(*Delete).Err() }},
		{"truncate table", func() QueryPart { return NewTruncate(table) }, func(p QueryPart) error { return p.(*Truncate).Err() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p QueryPart
			require.NotPanics(t, func() { p = tt.build() })
			assert.ErrorIs(t, tt.err(p), ErrInvalidArgument)
			require.NotPanics(t, func() {
				_, _, err := Build(p)
				assert.Error(t, err)
			})
		})
	}
}
