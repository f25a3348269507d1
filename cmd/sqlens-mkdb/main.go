// sqlens-mkdb writes the sample database set used for demos and
// manual inspection: one file per page layout the decoder handles
// (plain leaves, max page size, index pages, interior fan-out,
// overflow chains, freelist pages).
package main

import (
	"flag"
	"log"
	"os"

	"github.com/tuannm99/sqlens/internal/fixture"
)

func main() {
	outDir := flag.String("out", "./fixtures", "directory to write the sample databases to")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	builders := []struct {
		name  string
		build func(string) ([]byte, error)
	}{
		{"simple", fixture.Simple},
		{"big_page", fixture.BigPage},
		{"leaf_nodes", fixture.LeafNodes},
		{"interior_nodes", fixture.InteriorNodes},
		{"overflow_page", fixture.OverflowPage},
		{"freelist_page", fixture.FreelistPage},
	}
	for _, b := range builders {
		data, err := b.build(*outDir)
		if err != nil {
			log.Fatalf("Failed to build %s: %v", b.name, err)
		}
		log.Printf("%s: %d bytes", b.name, len(data))
	}
}
