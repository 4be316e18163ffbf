package engine

import (
	"fmt"

	"github.com/relnoir/sqlitelite/internal/pager"
	"github.com/relnoir/sqlitelite/internal/record"
	"github.com/relnoir/sqlitelite/internal/schema"
	"github.com/relnoir/sqlitelite/internal/sqlfront"
	"github.com/relnoir/sqlitelite/internal/varint"
)

// Query tokenizes, parses, and executes a SELECT statement.
func (e *Engine) Query(sql string) ([][]record.Value, error) {
	stmt, err := sqlfront.NewParser(sql).Parse()
	if err != nil {
		return nil, classifyFrontEndError("parse_query", err)
	}

	table, ok := e.catalog.Lookup(stmt.From)
	if !ok {
		return nil, newSemanticError("resolve_table", fmt.Errorf("table does not exist: %s", stmt.From))
	}

	if err := validateProjection(stmt.Projection); err != nil {
		return nil, newSemanticError("validate_projection", err)
	}

	if table.RootPage <= 0 {
		return nil, newError(Unsupported, "load_root_page", fmt.Errorf("table %s has no root page", table.TblName), nil)
	}
	root, err := e.readPage(uint32(table.RootPage))
	if err != nil {
		return nil, err
	}
	if root.Header().BtreeType != pager.LeafTable {
		return nil, newError(Unsupported, "load_root_page",
			fmt.Errorf("table %s spans a %v root page; only single-leaf-page tables are supported", table.TblName, root.Header().BtreeType),
			nil)
	}

	if isCountStar(stmt.Projection) {
		return [][]record.Value{{record.NewInteger(int64(root.CellCount()))}}, nil
	}

	var rows [][]record.Value
	for i := 0; i < root.CellCount(); i++ {
		cellBuf, err := root.CellSlice(i)
		if err != nil {
			return nil, classifyDecodeError("read_cell", err)
		}
		// A leaf-table payload larger than the page size minus 35 bytes
		// continues on overflow pages, which are not followed.
		if payloadSize, _, err := varint.Decode(cellBuf); err == nil && payloadSize > int64(e.pageSize)-35 {
			return nil, newError(Unsupported, "read_cell",
				fmt.Errorf("cell %d payload of %d bytes spills onto overflow pages", i, payloadSize), nil)
		}
		rec, err := record.Decode(cellBuf)
		if err != nil {
			return nil, classifyDecodeError("decode_record", err)
		}

		if stmt.Where != nil {
			match, err := evaluatePredicate(table, rec, *stmt.Where)
			if err != nil {
				return nil, newSemanticError("evaluate_predicate", err)
			}
			if !match {
				continue
			}
		}

		row, err := projectRow(table, rec, stmt.Projection)
		if err != nil {
			return nil, newSemanticError("project_row", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
