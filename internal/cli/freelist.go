package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var freelistCmd = &cobra.Command{
	Use:   "freelist <db-file>",
	Short: "Walk the freelist trunk chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}

		if jsonOut {
			pages, err := db.FreePages()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pages)
		}

		fmt.Printf("header claims %d freelist pages\n", db.Header().FreelistPageCount.Value)
		total := 0
		for trunk, err := range db.Freelist() {
			if err != nil {
				return err
			}
			total++
			fmt.Printf("trunk page %d -> next %d, %d leaves:",
				trunk.Number, trunk.Next.Value, trunk.LeafCount.Value)
			for _, leaf := range trunk.Leaves {
				fmt.Printf(" %d", leaf.Value)
				total++
			}
			fmt.Println()
		}
		fmt.Printf("%d pages on the freelist\n", total)
		return nil
	},
}
