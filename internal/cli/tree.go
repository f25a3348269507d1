package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuannm99/sqlens/internal/btree"
)

var treeCmd = &cobra.Command{
	Use:   "tree <db-file> <table-or-index>",
	Short: "Assemble and print a table or index b-tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		tree, err := db.Tree(args[1])
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		}

		fmt.Printf("%s %q\n", tree.Type, tree.Name)
		printNode(tree.Root, 0)
		if errs := tree.Root.Errors(); len(errs) > 0 {
			fmt.Printf("%d decode error(s):\n", len(errs))
			for _, err := range errs {
				fmt.Println(" -", err)
			}
		}
		return nil
	},
}

func printNode(n *btree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Err != nil {
		fmt.Printf("%spage %d: ERROR %v\n", indent, n.PageNumber, n.Err)
		return
	}
	fmt.Printf("%spage %d: %s, %d cells\n",
		indent, n.PageNumber, n.Page.Type(), len(n.Page.Cells))
	for _, child := range n.Children {
		printNode(child, depth+1)
	}
}
