package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/sqlens"
	"github.com/tuannm99/sqlens/internal"
)

var (
	cfgPath  string
	jsonOut  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "sqlens",
	Short: "sqlens - inspect the page structure of SQLite database files",
	Long: "sqlens decodes a SQLite database file into its header, pages, " +
		"cells, records, overflow chains and freelist, without executing " +
		"any queries against it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := internal.DefaultConfig()
		if cfgPath != "" {
			loaded, err := internal.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("json") || cfg.Output.JSON {
			jsonOut = jsonOut || cfg.Output.JSON
		}
		if logLevel == "" {
			logLevel = cfg.Log.Level
		}
		return setupLogging(logLevel, cfg.Log.Format)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a yaml config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(freelistCmd)
}

func setupLogging(level, formatName string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if formatName == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func openDatabase(path string) (*sqlens.Database, error) {
	db, err := sqlens.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	slog.Debug("database opened",
		"path", path,
		"pageSize", db.PageSize(),
		"pages", db.PageCount(),
	)
	return db, nil
}
