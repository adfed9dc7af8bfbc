// Package util maps structs to columns through `db` struct tags.
//
//	type User struct {
//	    ID    int64  `db:"id,pk"`
//	    Name  string `db:"name"`
//	    Notes string `db:"-"`
//	}
//
// A field without a tag maps to its Go name. Embedded structs contribute
// their fields. When no field is tagged pk, a field named ID or Id is the
// primary key.
package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ErrNoPrimaryKey is returned when a struct has no primary key field.
var ErrNoPrimaryKey = errors.New("struct has no primary key field")

// Field describes one mapped struct field.
type Field struct {
	Column string
	Index  []int
	PK     bool
}

var cache sync.Map // reflect.Type -> []Field

// Fields returns the mapped fields of struct type t in declaration order.
func Fields(t reflect.Type) ([]Field, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", t.Kind())
	}
	if f, ok := cache.Load(t); ok {
		return f.([]Field), nil
	}

	fields := collect(t, nil)
	markDefaultPK(t, fields)
	actual, _ := cache.LoadOrStore(t, fields)
	return actual.([]Field), nil
}

func collect(t reflect.Type, parent []int) []Field {
	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		tag, tagged := sf.Tag.Lookup("db")
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !tagged {
			out = append(out, collect(sf.Type, index)...)
			continue
		}

		column, pk := parseTag(tag)
		if column == "-" {
			continue
		}
		if column == "" {
			column = sf.Name
		}
		out = append(out, Field{Column: column, Index: index, PK: pk})
	}
	return out
}

// parseTag splits "column[,pk]".
func parseTag(tag string) (column string, pk bool) {
	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "pk" {
			pk = true
		}
	}
	return column, pk
}

func markDefaultPK(t reflect.Type, fields []Field) {
	for _, f := range fields {
		if f.PK {
			return
		}
	}
	for _, name := range []string{"ID", "Id"} {
		for i, f := range fields {
			if len(f.Index) == 1 && t.Field(f.Index[0]).Name == name {
				fields[i].PK = true
				return
			}
		}
	}
}

func structValue(v any) (reflect.Value, []Field, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil, errors.New("nil pointer")
		}
		rv = rv.Elem()
	}
	fields, err := Fields(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, fields, nil
}

// Values returns the columns and values of v, a struct or struct pointer.
// Primary key columns are left out when skipPK is set.
func Values(v any, skipPK bool) (columns []string, values []any, err error) {
	rv, fields, err := structValue(v)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range fields {
		if skipPK && f.PK {
			continue
		}
		columns = append(columns, f.Column)
		values = append(values, rv.FieldByIndex(f.Index).Interface())
	}
	return columns, values, nil
}

// PrimaryKey returns the primary key columns and values of v.
func PrimaryKey(v any) (columns []string, values []any, err error) {
	rv, fields, err := structValue(v)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range fields {
		if f.PK {
			columns = append(columns, f.Column)
			values = append(values, rv.FieldByIndex(f.Index).Interface())
		}
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, rv.Type())
	}
	return columns, values, nil
}
