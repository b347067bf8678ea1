package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robot-dreams/tabledb/database"
	"github.com/robot-dreams/tabledb/shell"
)

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfg *config
	var configPath string

	root := &cobra.Command{
		Use:           "tabledb",
		Short:         "Embedded file-backed table storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(v, configPath)
			return err
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	flags.String("dir", ".", "directory holding the databases")
	flags.String("log-level", "warn", "debug, info, warn or error")
	_ = v.BindPFlag("dir", flags.Lookup("dir"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	// Runs f against the named database, closing it afterwards.
	withDatabase := func(name string, f func(db *database.Database) error) error {
		db, err := database.Open(cfg.databasePath(name))
		if err != nil {
			return err
		}
		err = f(db)
		closeErr := db.Close()
		if err != nil {
			return err
		}
		return closeErr
	}
	// Runs a single shell command line against the named database.
	runLine := func(name string, line string) error {
		return withDatabase(name, func(db *database.Database) error {
			_, err := shell.NewSession(db, os.Stdout).Run(line)
			return err
		})
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "create DATABASE",
			Short: "Create an empty database",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.Create(cfg.databasePath(args[0]))
			},
		},
		&cobra.Command{
			Use:   "tables DATABASE",
			Short: "List the tables of a database",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], ".tables")
			},
		},
		&cobra.Command{
			Use:   "schema DATABASE TABLE",
			Short: "Show the attributes of a table",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], ".schema "+args[1])
			},
		},
		&cobra.Command{
			Use:   "create-table DATABASE TABLE name:type[:count][:nn][:uq]...",
			Short: "Create a table",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], ".create "+strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "insert DATABASE TABLE name=value...",
			Short: "Insert a row",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], "insert "+quoteAll(args[1:]))
			},
		},
		&cobra.Command{
			Use:   "select DATABASE TABLE [a,b|*] [where a=v and b!=v] [limit n]",
			Short: "Query a table",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], "select "+quoteAll(args[1:]))
			},
		},
		&cobra.Command{
			Use:   "load DATABASE TABLE FILE.csv",
			Short: "Insert every row of a csv file",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLine(args[0], ".load "+quoteAll(args[1:]))
			},
		},
		&cobra.Command{
			Use:   "shell DATABASE",
			Short: "Start an interactive shell",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(args[0], func(db *database.Database) error {
					fmt.Fprintf(os.Stdout, "tabledb shell on %s\n", db.Name())
					return shell.NewSession(db, os.Stdout).Interact(cfg.History)
				})
			},
		},
	)
	return root
}
