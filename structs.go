package qb

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/util"
)

// InsertStruct builds an INSERT of every mapped field of v, a struct or
// struct pointer. Fields map to columns through `db` tags.
// Primary key fields are left out when skipPK is set, for generated keys.
func InsertStruct(table string, v any, skipPK bool) (*Insert, error) {
	cols, vals, err := util.Values(v, skipPK)
	if err != nil {
		return nil, &core.Error{Kind: core.ErrInvalidArgument, Op: "insert.struct", Err: err}
	}
	ins := core.NewInsert(table).Columns(cols...).Values(vals...)
	return ins, ins.Err()
}

// UpdateStruct builds an UPDATE that sets every non-key field of v and
// matches the row by its primary key.
func UpdateStruct(table string, v any) (*Update, error) {
	keys, keyVals, err := util.PrimaryKey(v)
	if err != nil {
		return nil, &core.Error{Kind: core.ErrInvalidArgument, Op: "update.struct", Err: err}
	}
	cols, vals, err := util.Values(v, true)
	if err != nil {
		return nil, &core.Error{Kind: core.ErrInvalidArgument, Op: "update.struct", Err: err}
	}

	upd := core.NewUpdate(table)
	for i, col := range cols {
		upd.Set(col, vals[i])
	}
	for i, key := range keys {
		upd.Where(key+" = ?", keyVals[i])
	}
	return upd, upd.Err()
}
