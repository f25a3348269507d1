package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/sqlens/internal/format"
)

var headerCmd = &cobra.Command{
	Use:   "header <db-file>",
	Short: "Decode the 100-byte database header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		h := db.Header()

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(h)
		}

		printField("magic", h.Magic)
		printField("page size", h.PageSize)
		printField("write version", h.WriteVersion)
		printField("read version", h.ReadVersion)
		printField("reserved bytes/page", h.ReservedBytes)
		printField("file change counter", h.FileChangeCounter)
		printField("page count", h.PageCount)
		printField("first freelist trunk", h.FirstFreelistTrunk)
		printField("freelist pages", h.FreelistPageCount)
		printField("schema cookie", h.SchemaCookie)
		printField("schema format", h.SchemaFormat)
		printField("text encoding", h.TextEncoding)
		printField("user version", h.UserVersion)
		printField("application id", h.ApplicationID)
		printField("version valid for", h.VersionValidForNumber)
		printField("sqlite version", h.SQLiteVersionNumber)
		return nil
	},
}

func printField[T any](name string, f format.Field[T]) {
	fmt.Printf("%-22s %v  %s\n", name, f.Value, f.Span)
}
