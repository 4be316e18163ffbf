// Package schema builds the table catalog from page 1 (the sqlite_schema
// table) and extracts column names from CREATE TABLE text.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relnoir/sqlitelite/internal/pager"
	"github.com/relnoir/sqlitelite/internal/record"
)

// Table is one row of the schema catalog.
type Table struct {
	Kind string // "table", "index", "view", "trigger"
	Name string
	TblName string
	RootPage int64
	CreateSQL string
	Columns []string
}

// ColumnIndex returns the position of name in Columns (case-insensitive),
// or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// HasIDAlias reports whether this table's schema declares a column
// literally named "id" (case-insensitive), the column this engine aliases
// to the cell's rowid when its stored value is NULL (see the id-aliasing
// design decision).
func (t Table) HasIDAlias() bool {
	return t.ColumnIndex("id") >= 0
}

// Catalog maps a table's tbl_name to its decoded schema entry.
type Catalog struct {
	tables map[string]Table
}

// Lookup returns the Table registered under tblName, if any.
func (c *Catalog) Lookup(tblName string) (Table, bool) {
	t, ok := c.tables[strings.ToLower(tblName)]
	return t, ok
}

// TableNames returns every tbl_name in the catalog, sorted ascending, for
// the .tables meta-command.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.TblName)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of schema rows, for the .dbinfo meta-command.
func (c *Catalog) Count() int { return len(c.tables) }

// schemaColumns is the fixed positional layout of the sqlite_schema table
// itself, kept as data rather than a special-cased branch.
var schemaColumns = []string{"type", "name", "tbl_name", "rootpage", "sql"}

// Build decodes every cell of page 1 as a schema row and assembles a
// Catalog.
func Build(page1 *pager.Page) (*Catalog, error) {
	cat := &Catalog{tables: make(map[string]Table)}

	for i := 0; i < page1.CellCount(); i++ {
		cellBuf, err := page1.CellSlice(i)
		if err != nil {
			return nil, fmt.Errorf("schema: cell %d: %w", i, err)
		}
		rec, err := record.Decode(cellBuf)
		if err != nil {
			return nil, fmt.Errorf("schema: cell %d: %w", i, err)
		}
		if len(rec.Fields) != len(schemaColumns) {
			return nil, fmt.Errorf("schema: row %d has %d fields, want %d", i, len(rec.Fields), len(schemaColumns))
		}

		kindField, _ := rec.FieldAt(0)
		nameField, _ := rec.FieldAt(1)
		tblNameField, _ := rec.FieldAt(2)
		rootPageField, _ := rec.FieldAt(3)
		sqlField, _ := rec.FieldAt(4)

		if kindField.Kind() != record.Text || nameField.Kind() != record.Text || tblNameField.Kind() != record.Text {
			return nil, fmt.Errorf("schema: row %d missing a required text field", i)
		}
		var rootPage int64
		switch rootPageField.Kind() {
		case record.Integer:
			rootPage = rootPageField.Int()
		case record.Null:
			rootPage = 0
		default:
			return nil, fmt.Errorf("schema: row %d rootpage is not an integer", i)
		}
		createSQL := ""
		if sqlField.Kind() == record.Text {
			createSQL = sqlField.Str()
		}

		t := Table{
			Kind: kindField.Str(),
			Name: nameField.Str(),
			TblName: tblNameField.Str(),
			RootPage: rootPage,
			CreateSQL: createSQL,
			Columns: extractColumns(createSQL),
		}

		key := strings.ToLower(t.TblName)
		if _, exists := cat.tables[key]; exists {
			return nil, fmt.Errorf("schema: duplicate tbl_name %q", t.TblName)
		}
		cat.tables[key] = t
	}

	return cat, nil
}

// extractColumns implements column-name extraction: the substring
// between the first '(' and the last ')', split on commas (all commas are
// treated as top-level for this grammar subset), each piece trimmed and
// reduced to its first whitespace-delimited token.
func extractColumns(createSQL string) []string {
	open := strings.IndexByte(createSQL, '(')
	closeIdx := strings.LastIndexByte(createSQL, ')')
	if open < 0 || closeIdx <= open {
		return nil
	}
	inner := createSQL[open+1 : closeIdx]

	var columns []string
	for _, piece := range strings.Split(inner, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		name := piece
		if idx := strings.IndexFunc(piece, isASCIISpace); idx >= 0 {
			name = piece[:idx]
		}
		name = strings.Trim(name, `"`)
		columns = append(columns, name)
	}
	return columns
}

func isASCIISpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

