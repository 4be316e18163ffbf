package engine

import (
	"fmt"
	"strings"

	"github.com/relnoir/sqlitelite/internal/record"
	"github.com/relnoir/sqlitelite/internal/schema"
	"github.com/relnoir/sqlitelite/internal/sqlfront"
)

func validateProjection(items []sqlfront.ProjectionItem) error {
	if len(items) <= 1 {
		return nil
	}
	for _, item := range items {
		if item.Kind == sqlfront.ProjStar {
			return fmt.Errorf("projection mixes '*' with other items")
		}
	}
	return nil
}

func isCountStar(items []sqlfront.ProjectionItem) bool {
	if len(items) != 1 || items[0].Kind != sqlfront.ProjFunction {
		return false
	}
	fn := items[0]
	return strings.EqualFold(fn.Func, "count") && len(fn.FuncArgs) == 1 && fn.FuncArgs[0].Kind == sqlfront.ProjStar
}

// fieldByName resolves a column by name against rec, aliasing a NULL stored
// value in a column literally named "id" to the cell's rowid (the open
// question decision on rowid aliasing).
func fieldByName(table schema.Table, rec record.Record, name string) (record.Value, error) {
	idx := table.ColumnIndex(name)
	if idx < 0 {
		return record.Value{}, fmt.Errorf("unknown column: %s", name)
	}
	val, err := rec.FieldAt(idx)
	if err != nil {
		return record.Value{}, fmt.Errorf("column %s: %w", name, err)
	}
	if val.Kind() == record.Null && strings.EqualFold(table.Columns[idx], "id") {
		return record.NewInteger(rec.RowID), nil
	}
	return val, nil
}

func projectRow(table schema.Table, rec record.Record, items []sqlfront.ProjectionItem) ([]record.Value, error) {
	var row []record.Value
	for _, item := range items {
		switch item.Kind {
		case sqlfront.ProjStar:
			for _, col := range table.Columns {
				v, err := fieldByName(table, rec, col)
				if err != nil {
					return nil, err
				}
				row = append(row, v)
			}
		case sqlfront.ProjColumn:
			v, err := fieldByName(table, rec, item.Column)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		case sqlfront.ProjFunction:
			return nil, fmt.Errorf("unsupported function: %s", item.Func)
		}
	}
	return row, nil
}

func resolveOperand(table schema.Table, rec record.Record, op sqlfront.Operand) (record.Value, error) {
	switch op.Kind {
	case sqlfront.OperandColumnRef:
		return fieldByName(table, rec, op.Column)
	case sqlfront.OperandNum:
		return record.NewInteger(op.Num), nil
	case sqlfront.OperandQIdent:
		return record.NewText(op.Str), nil
	default:
		return record.Value{}, fmt.Errorf("unrecognised operand")
	}
}

func evaluatePredicate(table schema.Table, rec record.Record, pred sqlfront.Predicate) (bool, error) {
	left, err := resolveOperand(table, rec, pred.Left)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(table, rec, pred.Right)
	if err != nil {
		return false, err
	}
	return compareValues(left, pred.Op, right), nil
}

// compareValues implements comparison rules: NULL on either side is
// always false; same-typed Integer/Text are compared naturally including
// ordering; cross-type comparisons are false for every operator except !=,
// which is true.
func compareValues(left record.Value, op sqlfront.CmpOp, right record.Value) bool {
	if left.Kind() == record.Null || right.Kind() == record.Null {
		return false
	}
	if left.Kind() != right.Kind() {
		return op == sqlfront.CmpNotEq
	}

	switch left.Kind() {
	case record.Integer:
		return compareOrdered(left.Int(), right.Int(), op)
	case record.Text:
		return compareOrdered(left.Str(), right.Str(), op)
	case record.Float:
		return compareOrdered(left.Float(), right.Float(), op)
	case record.Blob:
		return compareBlobEquality(left.Bytes(), right.Bytes(), op)
	default:
		return false
	}
}

type ordered interface {
	~int64 | ~float64 | ~string
}

func compareOrdered[T ordered](left, right T, op sqlfront.CmpOp) bool {
	switch op {
	case sqlfront.CmpEq:
		return left == right
	case sqlfront.CmpNotEq:
		return left != right
	case sqlfront.CmpLT:
		return left < right
	case sqlfront.CmpLTEq:
		return left <= right
	case sqlfront.CmpGT:
		return left > right
	case sqlfront.CmpGTEq:
		return left >= right
	default:
		return false
	}
}

// compareBlobEquality covers BLOB, for which only equality is defined;
// ordered comparisons between blobs are false, matching the cross-type
// fallback rather than an unspecified byte-lexicographic order.
func compareBlobEquality(left, right []byte, op sqlfront.CmpOp) bool {
	equal := string(left) == string(right)
	switch op {
	case sqlfront.CmpEq:
		return equal
	case sqlfront.CmpNotEq:
		return !equal
	default:
		return false
	}
}
