/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/attrio/attrio/pkg/dump"
	"github.com/attrio/attrio/pkg/schemas"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed the built-in terminal types",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()
			return schemas.SeedSysRows(storage)
		},
	}
}

func newDumpCmd() *cobra.Command {
	var out string
	var zipped bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the whole relation as a restorable text stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			encode := dump.Encode
			if zipped {
				encode = dump.EncodeZip
			}
			rows, err := encode(context.Background(), storage, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "dumped %d row(s)\n", rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&zipped, "zip", false, "Wrap the dump in a single-entry zip container")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [<dump file>]",
		Short: "Restore a dump, skipping rows whose ids already exist",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return ErrInvalidNumberOfArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			var r io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			stored, skipped, err := dump.Decode(context.Background(), storage, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "restored %d row(s), skipped %d existing\n", stored, skipped)
			return nil
		},
	}
}
