package params

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

func TestNormalize_Auto(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		value    any
		wantType BindType
	}{
		{"nil", nil, Null},
		{"true", true, Bool},
		{"false", false, Bool},
		{"int", 42, Int},
		{"int64", int64(-7), Int},
		{"uint8", uint8(3), Int},
		{"uint64", uint64(math.MaxInt64), Int},
		{"uint64 above int64", uint64(math.MaxUint64), String},
		{"string", "bar", String},
		{"float", 1.5, String},
		{"bytes", []byte("raw"), String},
		{"time", now, String},
		{"named string type", status("active"), String},
		{"valuer", sql.NullInt64{Int64: 1, Valid: true}, String},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.value, Auto)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.value, p.Value)
			assert.Empty(t, p.Name)
		})
	}
}

func TestNormalize_ForceString(t *testing.T) {
	for _, v := range []any{nil, true, 12, "x", 3.25} {
		p, err := Normalize(v, ForceString)
		require.NoError(t, err)
		assert.Equal(t, String, p.Type)
		assert.Equal(t, v, p.Value, "value must be preserved")
	}

	p, err := Normalize(As(5, Int), ForceString)
	require.NoError(t, err)
	assert.Equal(t, String, p.Type)
	assert.Equal(t, 5, p.Value)
}

func TestNormalize_Manual(t *testing.T) {
	p, err := Normalize(As("abc", Binary), Manual)
	require.NoError(t, err)
	assert.Equal(t, Param{Value: "abc", Type: Binary}, p)

	_, err = Normalize("abc", Manual)
	assert.ErrorIs(t, err, ErrUntyped)

	_, err = Normalize(As("abc", BindType(99)), Manual)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNormalize_TypedUnderAuto(t *testing.T) {
	p, err := Normalize(As("7", Int), Auto)
	require.NoError(t, err)
	assert.Equal(t, Int, p.Type)
	assert.Equal(t, "7", p.Value)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(1, Policy(42))
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = Normalize(As(1, Int), Policy(42))
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	x := 1
	for _, v := range []any{map[string]int{"a": 1}, struct{}{}, &x, func() {}, make(chan int)} {
		_, err := Normalize(v, Auto)
		assert.ErrorIs(t, err, ErrUnsupportedValue, "%T", v)
	}
}

func TestIsBatch(t *testing.T) {
	assert.True(t, IsBatch(Batch{1, 2}))
	assert.True(t, IsBatch([]string{"a"}))
	assert.True(t, IsBatch([]int{}))
	assert.False(t, IsBatch([]byte("x")))
	assert.False(t, IsBatch(As([]int{1}, String)))
	assert.False(t, IsBatch(nil))
	assert.False(t, IsBatch("abc"))

	assert.Equal(t, []any{"a", "b"}, Elements([]string{"a", "b"}))
	assert.Equal(t, []any{1, As(2, Int)}, Elements(Batch{1, As(2, Int)}))
	assert.Nil(t, Elements(3))
}

func TestBindType_String(t *testing.T) {
	assert.Equal(t, "NULL", Null.String())
	assert.Equal(t, "STRING", String.String())
	assert.Equal(t, "BindType(9)", BindType(9).String())
	assert.False(t, BindType(9).Valid())
}
