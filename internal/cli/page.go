package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tuannm99/sqlens/internal/page"
)

var pageCmd = &cobra.Command{
	Use:   "page <db-file> <page-number>",
	Short: "Decode one b-tree page, its cells and records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		pageNum, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("page number %q: %w", args[1], err)
		}

		p, err := db.Page(pageNum)
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Printf("page %d @ offset %d: %s\n", p.Number, p.Offset, p.Type())
		printField("cells", p.Header.CellCount)
		printField("content start", p.Header.ContentStart)
		printField("first freeblock", p.Header.FirstFreeblock)
		printField("fragmented bytes", p.Header.FragmentedFreeBytes)
		if p.Header.RightMostChild != nil {
			printField("right-most child", *p.Header.RightMostChild)
		}
		fmt.Printf("unallocated %s\n", p.Unallocated)

		for i, slot := range p.Cells {
			if slot.Err != nil {
				fmt.Printf("  cell %-3d @%-5d ERROR: %v\n", i, slot.Ptr.Value, slot.Err)
				continue
			}
			fmt.Printf("  cell %-3d @%-5d %s\n", i, slot.Ptr.Value, describeCell(slot.Cell))
		}
		return nil
	},
}

func describeCell(c page.Cell) string {
	switch cell := c.(type) {
	case *page.TableInteriorCell:
		return fmt.Sprintf("rowid %d -> child page %d", cell.RowID.Value, cell.LeftChild.Value)
	case *page.TableLeafCell:
		s := fmt.Sprintf("rowid %d, payload %d bytes", cell.RowID.Value, cell.PayloadLen.Value)
		if cell.Payload.Spilled() {
			s += fmt.Sprintf(" (%d on %d overflow pages)",
				cell.Payload.Overflow.SpilledLen, len(cell.Payload.Overflow.Pages))
		}
		return s + ", " + strconv.Itoa(cell.Record.NumColumns()) + " columns"
	case *page.IndexInteriorCell:
		return fmt.Sprintf("key payload %d bytes -> child page %d",
			cell.PayloadLen.Value, cell.LeftChild.Value)
	case *page.IndexLeafCell:
		return fmt.Sprintf("key payload %d bytes", cell.PayloadLen.Value)
	default:
		return "unknown cell"
	}
}
