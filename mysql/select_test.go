package mysql

import (
	"testing"

	"github.com/coregx/qb/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_Full(t *testing.T) {
	sub := NewSelect("b", "f").From("baz").Where("f = ?", 7)

	q := New().Select("foo.bar", core.ColAs("COUNT(baz.id)", "baz_count")).
		Modifier("SQL_NO_CACHE", "DISTINCT").
		From("foo").
		LeftJoin("baz", "baz.foo_id = foo.id").
		Where("foo.active = ?", true).
		GroupBy("foo.bar").
		WithRollup().
		Having("COUNT(baz.id) > ?", 2).
		OrderBy("baz_count", "desc").
		Limit(10).
		Offset(20).
		Lock(ForUpdate, NoWait, "foo").
		Union(sub, All)

	sql, ps, err := q.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT SQL_NO_CACHE foo.bar, COUNT(baz.id) AS baz_count\n"+
		"FROM foo\n"+
		"LEFT JOIN baz ON baz.foo_id = foo.id\n"+
		"WHERE foo.active = ?\n"+
		"GROUP BY foo.bar WITH ROLLUP\n"+
		"HAVING COUNT(baz.id) > ?\n"+
		"ORDER BY baz_count DESC\n"+
		"LIMIT 20, 10\n"+
		"FOR UPDATE OF foo NOWAIT\n"+
		"UNION ALL\n"+
		"SELECT b, f\n"+
		"FROM baz\n"+
		"WHERE f = ?", sql)
	assert.Equal(t, []any{true, 2, 7}, ps.Values())
}

func TestSelect_ModifierSlots(t *testing.T) {
	t.Run("later modifier replaces its category", func(t *testing.T) {
		sql, err := NewSelect("a").From("t").Modifier("DISTINCT").Modifier("all").SQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT ALL a\nFROM t", sql)
	})

	t.Run("category order", func(t *testing.T) {
		sql, err := NewSelect("a").From("t").
			Modifier("SQL_CALC_FOUND_ROWS", "STRAIGHT_JOIN", "HIGH_PRIORITY", "DISTINCTROW").
			SQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT DISTINCTROW HIGH_PRIORITY STRAIGHT_JOIN SQL_CALC_FOUND_ROWS a\nFROM t", sql)
	})

	t.Run("unknown modifier", func(t *testing.T) {
		s := NewSelect("a").From("t").Modifier("DISTINCT", "FAST")
		assert.ErrorIs(t, s.Err(), core.ErrInvalidArgument)
		_, err := s.SQL()
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("failed call is not applied", func(t *testing.T) {
		s := NewSelect("a").From("t").Modifier("DISTINCT", "FAST")
		assert.Empty(t, s.modifiers.List())
	})
}

func TestSelect_Paging(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		offset int
		want   string
	}{
		{"limit only", 10, -1, "SELECT *\nFROM t\nLIMIT 10"},
		{"limit and offset", 10, 5, "SELECT *\nFROM t\nLIMIT 5, 10"},
		{"offset only", -1, 5, "SELECT *\nFROM t\nLIMIT 5, 18446744073709551615"},
		{"none", -1, -1, "SELECT *\nFROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelect().From("t")
			if tt.limit >= 0 {
				s.Limit(tt.limit)
			}
			if tt.offset >= 0 {
				s.Offset(tt.offset)
			}
			sql, err := s.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestSelect_Lock(t *testing.T) {
	tests := []struct {
		name   string
		mode   LockMode
		option LockOption
		tables []string
		want   string
	}{
		{"share mode", "", "", nil, "LOCK IN SHARE MODE"},
		{"for update", ForUpdate, "", nil, "FOR UPDATE"},
		{"for share skip locked", ForShare, SkipLocked, nil, "FOR SHARE SKIP LOCKED"},
		{"of tables", ForUpdate, NoWait, []string{"a", "b"}, "FOR UPDATE OF a, b NOWAIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := NewSelect("id").From("t").Lock(tt.mode, tt.option, tt.tables...).SQL()
			require.NoError(t, err)
			assert.Equal(t, "SELECT id\nFROM t\n"+tt.want, sql)
		})
	}

	t.Run("share mode rejects tables", func(t *testing.T) {
		_, err := NewLock(LockInShareMode, "", "t")
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NewSelect("id").From("t").Lock("EXCLUSIVE", "").SQL()
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestSelect_OuterClauses(t *testing.T) {
	q := NewSelect("a").From("t1").
		Union(NewSelect("a").From("t2"), Distinct).
		OuterOrderBy("a", "DESC").
		OuterLimit(5).
		OuterLock(ForUpdate, "")

	sql, err := q.SQL()
	require.NoError(t, err)
	assert.Equal(t, "(SELECT a\nFROM t1\nUNION DISTINCT\nSELECT a\nFROM t2)\nORDER BY a DESC\nLIMIT 5\nFOR UPDATE", sql)

	_, err = NewSelect("a").From("t").OuterLimit(-1).SQL()
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestSelect_Union(t *testing.T) {
	_, err := NewSelect("a").From("t").Union(NewSelect("a").From("u"), "EXCEPT").SQL()
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = NewSelect("a").From("t").Union(nil, "").SQL()
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestSelect_AsSubQuery(t *testing.T) {
	inner := NewSelect("id").From("users").Where("age > ?", 18).Limit(3)
	outer := core.NewSelect(core.NewColumn(inner, "top_users")).From("orders")

	sql, ps, err := outer.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT (SELECT id FROM users WHERE age > ? LIMIT 3) AS top_users\nFROM orders", sql)
	assert.Equal(t, []any{18}, ps.Values())
}

func TestSelect_NotReady(t *testing.T) {
	_, err := NewSelect().SQL()
	assert.ErrorIs(t, err, core.ErrNotReady)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`db`.`users`", Quote("db.users"))
	assert.Equal(t, "`a``b`", Quote("a`b"))
}

func TestSelect_UnionTypedNil(t *testing.T) {
	var sub *Select
	q := NewSelect("a").From("t").Union(sub, "")
	assert.ErrorIs(t, q.Err(), core.ErrInvalidArgument)
}
