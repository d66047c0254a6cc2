/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	_ "embed"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

// persistent flags
var (
	storageKind string
	dbDir       string
	dbName      string
	cacheMB     int
)

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func execRootCmd(args []string, ver string) error {
	version = ver
	rootCmd = cobrau.PrepareRootCmd(
		"attrio",
		"Schema-as-data relation toolkit",
		args,
		version,
		newInitCmd(),
		newDumpCmd(),
		newRestoreCmd(),
		newFieldsCmd(),
		newObjectCmd(),
		newReportCmd(),
		newCheckCmd(),
	)

	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "bbolt", "Storage driver: mem, bbolt or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbDir, "db-dir", ".", "Directory holding the database files")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "attrio", "Database name")
	rootCmd.PersistentFlags().IntVar(&cacheMB, "cache-mb", 32, "Point-lookup cache size, megabytes (0 disables)")

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
