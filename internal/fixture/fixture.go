// Package fixture produces sample database files by driving a real
// SQLite engine, so decoder tests run against byte-for-byte authentic
// input rather than hand-crafted buffers. Each builder mirrors one of
// the page layouts the decoder has to handle.
package fixture

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Build runs the statements against a fresh database file under dir
// and returns the finished file image. Statements run in order;
// page-size pragmas therefore have to come first.
func Build(dir, name string, stmts []string) ([]byte, error) {
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open fixture database: %w", err)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close fixture database: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	return data, nil
}

// Simple is a 512-byte-page database with one table of four integer
// rows: a single table-leaf page besides the schema page.
func Simple(dir string) ([]byte, error) {
	return Build(dir, "simple.db", []string{
		"PRAGMA page_size=512",
		"CREATE TABLE simple(value)",
		"INSERT INTO simple VALUES(1), (2), (3), (4)",
	})
}

// BigPage is the Simple layout at the maximum page size, whose raw
// header field holds the legacy value 1.
func BigPage(dir string) ([]byte, error) {
	return Build(dir, "big_page.db", []string{
		"PRAGMA page_size=65536",
		"CREATE TABLE big_page(value)",
		"INSERT INTO big_page VALUES(1), (2), (3), (4)",
	})
}

// LeafNodes has typed rows and secondary indexes, producing index-leaf
// pages next to table-leaf pages.
func LeafNodes(dir string) ([]byte, error) {
	return Build(dir, "leaf_nodes.db", []string{
		"CREATE TABLE stars(id INTEGER PRIMARY KEY, name TEXT, distance REAL, brightness REAL)",
		"INSERT INTO stars VALUES" +
			"(100, 'Sirius', 8.6, -1.46)," +
			"(200, 'Canopus', 310.0, -0.74)," +
			"(300, 'Rigil Kentaurus', 4.4, -0.27)," +
			"(400, 'Arcturus', 37.0, -0.05)," +
			"(500, 'Vega', 25.0, 0.03)",
		"CREATE INDEX idx_stars_name ON stars(name)",
		"CREATE TABLE spaceships(launched, name, operator)",
		"INSERT INTO spaceships VALUES" +
			"(1977, 'Voyager 1', 'NASA')," +
			"(1997, 'Cassini', 'NASA')," +
			"(2004, 'Rosetta', 'ESA')," +
			"(2011, 'Juno', 'NASA')",
		"CREATE INDEX idx_spaceships_name ON spaceships(name)",
	})
}

// InteriorNodes overfills a 512-byte-page table and its index so both
// b-trees need interior pages.
func InteriorNodes(dir string) ([]byte, error) {
	stmts := []string{
		"PRAGMA page_size=512",
		"CREATE TABLE story(line)",
	}
	var values []string
	for i := 0; i < 600; i++ {
		values = append(values, fmt.Sprintf("('chapter %03d, line %03d')", i/40, i%40))
	}
	stmts = append(stmts,
		"INSERT INTO story VALUES "+strings.Join(values, ","),
		"CREATE INDEX idx_story_line ON story(line)",
	)
	return Build(dir, "interior_nodes.db", stmts)
}

// OverflowText is the payload stored by OverflowPage; it exceeds the
// local-payload threshold of a 1024-byte page many times over.
func OverflowText() string {
	return strings.Repeat("overflow payload stripe / ", 512)
}

// OverflowPage stores payloads that spill into overflow chains on a
// 1024-byte-page database.
func OverflowPage(dir string) ([]byte, error) {
	text := OverflowText()
	return Build(dir, "overflow_page.db", []string{
		"PRAGMA page_size=1024",
		"CREATE TABLE blob_overflow(data)",
		fmt.Sprintf("INSERT INTO blob_overflow VALUES('%s')", text),
		"CREATE TABLE mixed_overflow(text, longint, int, data)",
		fmt.Sprintf("INSERT INTO mixed_overflow VALUES('%s', 234234235, 0, x'%x')", text, []byte(text)),
	})
}

// WideRow stores one row with so many columns that its record header
// alone outgrows the local payload portion of a 1024-byte page and
// spills into the overflow chain.
func WideRow(dir string) ([]byte, error) {
	var cols, vals []string
	for i := 0; i < 1000; i++ {
		cols = append(cols, fmt.Sprintf("c%04d", i))
		vals = append(vals, fmt.Sprintf("'%s'", strings.Repeat("w", 50)))
	}
	return Build(dir, "wide_row.db", []string{
		"PRAGMA page_size=1024",
		fmt.Sprintf("CREATE TABLE wide(%s)", strings.Join(cols, ",")),
		fmt.Sprintf("INSERT INTO wide VALUES(%s)", strings.Join(vals, ",")),
	})
}

// FreelistPage deletes rows and drops a table so reclaimed pages land
// on the freelist chain.
func FreelistPage(dir string) ([]byte, error) {
	text := OverflowText()
	return Build(dir, "freelist_page.db", []string{
		"PRAGMA page_size=1024",
		"CREATE TABLE mixed_overflow(text, data)",
		"CREATE TABLE blob_overflow(data)",
		fmt.Sprintf("INSERT INTO blob_overflow VALUES('%s')", text),
		"INSERT INTO mixed_overflow SELECT data, data FROM blob_overflow",
		"DELETE FROM mixed_overflow",
		"DROP TABLE blob_overflow",
	})
}
