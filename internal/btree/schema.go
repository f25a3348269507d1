package btree

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/sqlens/internal/format"
	"github.com/tuannm99/sqlens/internal/page"
)

// SchemaRootPage is the root of the schema table in every database
// file: a table b-tree starting at page 1.
const SchemaRootPage = 1

// SchemaName is the name reported for the schema table's own tree.
const SchemaName = "sqlite_schema"

// SchemaEntry is one row of the schema table.
type SchemaEntry struct {
	// Type is "table", "index", "view" or "trigger".
	Type      string
	Name      string
	TableName string
	// RootPage is 0 for views and triggers, which own no b-tree.
	RootPage int
	SQL      string
}

// Tree is a named logical tree, assembled per inspection request and
// discarded after use.
type Tree struct {
	// Type is "table" or "index".
	Type string
	Name string
	Root *Node
}

// ReadSchema decodes the schema table's rows in key order. Rows whose
// cells failed to decode are skipped with a log line; the rest of the
// schema still comes back.
func ReadSchema(f *page.File) ([]SchemaEntry, error) {
	cells, err := collectLeafCells(f, SchemaRootPage, make(map[int]bool))
	if err != nil {
		return nil, err
	}

	var entries []SchemaEntry
	for _, cell := range cells {
		entry, err := schemaEntry(cell.Record)
		if err != nil {
			slog.Warn("btree: skipping malformed schema row", "rowid", cell.RowID.Value, "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Trees assembles every discoverable tree: the schema table itself
// first, then one per schema row that owns a root page.
func Trees(f *page.File) ([]Tree, error) {
	entries, err := ReadSchema(f)
	if err != nil {
		return nil, err
	}

	trees := []Tree{{Type: "table", Name: SchemaName, Root: Assemble(f, SchemaRootPage)}}
	for _, e := range entries {
		if e.RootPage < 1 {
			continue
		}
		trees = append(trees, Tree{Type: e.Type, Name: e.Name, Root: Assemble(f, e.RootPage)})
	}
	return trees, nil
}

// Lookup assembles the named table or index tree.
func Lookup(f *page.File, name string) (*Tree, error) {
	if name == SchemaName || name == "sqlite_master" {
		return &Tree{Type: "table", Name: SchemaName, Root: Assemble(f, SchemaRootPage)}, nil
	}
	entries, err := ReadSchema(f)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name && e.RootPage >= 1 {
			return &Tree{Type: e.Type, Name: e.Name, Root: Assemble(f, e.RootPage)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotATree, name)
}

// collectLeafCells gathers a table b-tree's leaf cells in key order.
func collectLeafCells(f *page.File, pageNum int, visited map[int]bool) ([]*page.TableLeafCell, error) {
	if pageNum < 1 || pageNum > f.PageCount() {
		return nil, fmt.Errorf("%w: %d of %d", page.ErrPageOutOfRange, pageNum, f.PageCount())
	}
	if visited[pageNum] {
		return nil, fmt.Errorf("%w: page %d", ErrCyclicPageReference, pageNum)
	}
	visited[pageNum] = true

	p, err := page.Decode(f, pageNum)
	if err != nil {
		return nil, err
	}

	var cells []*page.TableLeafCell
	for _, slot := range p.Cells {
		switch cell := slot.Cell.(type) {
		case *page.TableInteriorCell:
			sub, err := collectLeafCells(f, cell.LeftChild.Value, visited)
			if err != nil {
				return nil, err
			}
			cells = append(cells, sub...)
		case *page.TableLeafCell:
			cells = append(cells, cell)
		}
	}
	if p.Type().IsInterior() && p.Header.RightMostChild != nil {
		sub, err := collectLeafCells(f, p.Header.RightMostChild.Value, visited)
		if err != nil {
			return nil, err
		}
		cells = append(cells, sub...)
	}
	return cells, nil
}

// schemaEntry maps a schema record's five columns onto a SchemaEntry.
func schemaEntry(rec *format.Record) (SchemaEntry, error) {
	if rec == nil {
		return SchemaEntry{}, fmt.Errorf("%w: record failed to decode", ErrBadSchemaRecord)
	}
	if rec.NumColumns() < 5 {
		return SchemaEntry{}, fmt.Errorf("%w: %d columns", ErrBadSchemaRecord, rec.NumColumns())
	}

	var e SchemaEntry
	for i, dst := range []*string{&e.Type, &e.Name, &e.TableName} {
		v := rec.Values[i]
		if v.Kind != format.KindText {
			return SchemaEntry{}, fmt.Errorf("%w: column %d is %s", ErrBadSchemaRecord, i, v.Type)
		}
		*dst = v.Text
	}

	if root, ok := rec.Values[3].AsInt(); ok {
		e.RootPage = int(root)
	} else if !rec.Values[3].IsNull() {
		return SchemaEntry{}, fmt.Errorf("%w: root page is %s", ErrBadSchemaRecord, rec.Values[3].Type)
	}

	// The SQL column is NULL for some internal objects.
	if rec.Values[4].Kind == format.KindText {
		e.SQL = rec.Values[4].Text
	}
	return e, nil
}
