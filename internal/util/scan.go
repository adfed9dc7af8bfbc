package util

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// ScanRow scans the current row of rows into dest, a struct pointer.
// Columns are matched to fields case-insensitively; unmatched columns are
// discarded.
func ScanRow(rows *sql.Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("scan: dest must be a non-nil struct pointer, got %T", dest)
	}
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	targets, err := scanTargets(rv.Elem(), columns)
	if err != nil {
		return err
	}
	if err := rows.Scan(targets...); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// ScanAll appends every remaining row to dest, a pointer to a slice of
// structs or struct pointers. It does not close rows.
func ScanAll(rows *sql.Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("scan: dest must be a non-nil slice pointer, got %T", dest)
	}
	slice := rv.Elem()
	elem := slice.Type().Elem()
	isPtr := elem.Kind() == reflect.Pointer
	if isPtr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("scan: slice element must be a struct, got %s", elem)
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	for rows.Next() {
		item := reflect.New(elem)
		targets, err := scanTargets(item.Elem(), columns)
		if err != nil {
			return err
		}
		if err := rows.Scan(targets...); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if isPtr {
			slice.Set(reflect.Append(slice, item))
		} else {
			slice.Set(reflect.Append(slice, item.Elem()))
		}
	}
	return rows.Err()
}

func scanTargets(v reflect.Value, columns []string) ([]any, error) {
	fields, err := Fields(v.Type())
	if err != nil {
		return nil, err
	}
	byColumn := make(map[string]Field, len(fields))
	for _, f := range fields {
		byColumn[strings.ToLower(f.Column)] = f
	}

	targets := make([]any, len(columns))
	for i, col := range columns {
		if f, ok := byColumn[strings.ToLower(col)]; ok {
			targets[i] = v.FieldByIndex(f.Index).Addr().Interface()
		} else {
			targets[i] = new(any)
		}
	}
	return targets, nil
}
