// Package sqlens decodes the SQLite database file format for
// inspection: the 100-byte header, every page's type-specific layout,
// cell and record contents, and the cross-page linkages (b-tree
// children, overflow chains, the freelist) that tie pages into logical
// tables and indexes. It is strictly read-only; rendering the decoded
// structures is the caller's concern.
package sqlens

import (
	"fmt"
	"iter"
	"os"

	"github.com/tuannm99/sqlens/internal/btree"
	"github.com/tuannm99/sqlens/internal/format"
	"github.com/tuannm99/sqlens/internal/page"
)

// Database is a decoded view over one immutable database file image.
// All methods are safe for concurrent use; nothing is cached or
// mutated, every decode derives from the byte buffer alone.
type Database struct {
	file *page.File
}

// Open wraps a database file image. The buffer must not be modified
// while the Database is in use.
func Open(data []byte) (*Database, error) {
	f, err := page.NewFile(data)
	if err != nil {
		return nil, err
	}
	return &Database{file: f}, nil
}

// OpenFile reads and wraps the database file at path.
func OpenFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read database file: %w", err)
	}
	return Open(data)
}

// Header returns the parsed database header.
func (db *Database) Header() *format.DatabaseHeader { return db.file.Header() }

// PageCount is the number of pages in the file.
func (db *Database) PageCount() int { return db.file.PageCount() }

// PageSize is the logical page size.
func (db *Database) PageSize() int { return db.file.PageSize() }

// Page decodes the b-tree page with the given 1-based number.
// Overflow and freelist pages carry no type byte and are reached
// through Freelist and the cells that reference them instead.
func (db *Database) Page(pageNum int) (*page.Page, error) {
	return page.Decode(db.file, pageNum)
}

// Schema returns the rows of the schema table.
func (db *Database) Schema() ([]btree.SchemaEntry, error) {
	return btree.ReadSchema(db.file)
}

// Trees assembles every named logical tree, the schema tree first.
func (db *Database) Trees() ([]btree.Tree, error) {
	return btree.Trees(db.file)
}

// Tree assembles the tree of the named table or index.
func (db *Database) Tree(name string) (*btree.Tree, error) {
	return btree.Lookup(db.file, name)
}

// Freelist lazily walks the freelist trunk chain.
func (db *Database) Freelist() iter.Seq2[*page.TrunkPage, error] {
	return page.WalkFreelist(db.file)
}

// FreePages lists every page number on the freelist, trunks included.
func (db *Database) FreePages() ([]int, error) {
	return page.FreePages(db.file)
}
