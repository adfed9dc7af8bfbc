package security

import (
	"testing"

	"github.com/coregx/qb/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Statement(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		strict  bool
		wantErr bool
	}{
		{"select", "SELECT *\nFROM users\nWHERE id = ?", false, false},
		{"union is built on purpose", "SELECT a\nFROM t1\nUNION ALL\nSELECT a\nFROM t2", false, false},
		{"information schema", "SELECT * FROM information_schema.tables", false, true},
		{"stacked drop", "SELECT * FROM users; DROP TABLE users", false, true},
		{"stacked truncate spaced", "SELECT 1; TRUNCATE logs", false, true},
		{"sleep", "SELECT pg_sleep(10)", false, true},
		{"benchmark", "SELECT BENCHMARK(1000000, MD5('a'))", false, true},
		{"exec", "EXEC('xp_dirtree')", false, true},
		{"comment allowed", "SELECT 1 -- note", false, false},
		{"comment strict", "SELECT 1 -- note", true, true},
		{"tautology strict", "SELECT * FROM u WHERE a = 1 OR 1=1", true, true},
		{"block comment strict", "SELECT /* hint */ 1", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.strict {
				opts = append(opts, WithStrict())
			}
			err := NewValidator(opts...).Validate(tt.sql, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSuspicious)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Params(t *testing.T) {
	v := NewValidator()
	sql := "SELECT * FROM users WHERE name = ?"

	require.NoError(t, v.Validate(sql, params.Set{{Value: "O'Brien", Type: params.String}}))
	require.NoError(t, v.Validate(sql, params.Set{{Value: 42, Type: params.Int}}))

	err := v.Validate(sql, params.Set{
		{Value: "ok", Type: params.String},
		{Value: "x' OR '1'='1", Type: params.String},
	})
	require.ErrorIs(t, err, ErrSuspicious)
	assert.Contains(t, err.Error(), "parameter #2")

	err = v.Validate("SELECT * FROM users WHERE name = :name", params.Set{
		{Name: "name", Value: "a'; DROP TABLE users", Type: params.String},
	})
	require.ErrorIs(t, err, ErrSuspicious)
	assert.Contains(t, err.Error(), "parameter name")

	// Binary values are not inspected.
	assert.NoError(t, v.Validate(sql, params.Set{{Value: []byte("'--"), Type: params.Binary}}))
}
