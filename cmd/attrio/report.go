/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/reports"
)

func newReportCmd() *cobra.Command {
	var (
		limit, offset int
		orderSpec     string
		format        string
		fromFlags     []string
		toFlags       []string
		equalsFlags   []string
		containsFlags []string
	)

	cmd := &cobra.Command{
		Use:   "report <report id>",
		Short: "Compile and execute a stored report",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrInvalidNumberOfArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID, err := parseIDArg(args[0], "report id")
			if err != nil {
				return err
			}
			filters, err := collectFilters(fromFlags, toFlags, equalsFlags, containsFlags)
			if err != nil {
				return err
			}

			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			ctx := context.Background()
			plan, err := reports.ProvideCompiler(ctx, storage).Compile(reportID)
			if err != nil {
				return err
			}
			result, err := reports.ProvideExecutor(ctx, storage).Execute(plan, filters, limit, offset, orderSpec)
			if err != nil {
				return err
			}
			return printResult(result, format)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (0 reads the whole result)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().StringVar(&orderSpec, "order", "", "Comma-separated column ids, '-' prefix for descending")
	cmd.Flags().StringVar(&format, "format", "rows", "Output shape: rows, columns, named, first, byid or grouped")
	cmd.Flags().StringArrayVar(&fromFlags, "from", nil, "Lower bound, <column id>=<value>, repeatable")
	cmd.Flags().StringArrayVar(&toFlags, "to", nil, "Upper bound, <column id>=<value>, repeatable")
	cmd.Flags().StringArrayVar(&equalsFlags, "equals", nil, "Exact match, <column id>=<value>, repeatable")
	cmd.Flags().StringArrayVar(&containsFlags, "contains", nil, "Substring match, <column id>=<value>, repeatable")
	return cmd
}

func collectFilters(from, to, equals, contains []string) (reports.Filters, error) {
	filters := reports.Filters{}
	apply := func(flags []string, set func(f *reports.Filter, value string)) error {
		for _, flag := range flags {
			col, value, ok := strings.Cut(flag, "=")
			if !ok {
				return coreutils.ErrInvalidArgument("filter %q: want <column id>=<value>", flag)
			}
			id, err := parseIDArg(col, "filter column")
			if err != nil {
				return err
			}
			f := filters[id]
			set(&f, value)
			filters[id] = f
		}
		return nil
	}

	if err := apply(from, func(f *reports.Filter, v string) { f.From = v }); err != nil {
		return nil, err
	}
	if err := apply(to, func(f *reports.Filter, v string) { f.To = v }); err != nil {
		return nil, err
	}
	if err := apply(equals, func(f *reports.Filter, v string) { f.Equals = v }); err != nil {
		return nil, err
	}
	if err := apply(contains, func(f *reports.Filter, v string) { f.Contains = v }); err != nil {
		return nil, err
	}
	return filters, nil
}

func printResult(result *reports.Result, format string) error {
	var shape any
	switch format {
	case "rows":
		shape = reports.RenderRows(result)
	case "columns":
		shape = reports.RenderColumns(result)
	case "named":
		shape = reports.RenderNamed(result)
	case "first":
		shape = reports.RenderFirstNamed(result)
	case "byid":
		shape = reports.RenderByID(result)
	case "grouped":
		shape = reports.RenderGrouped(result)
	default:
		return coreutils.ErrInvalidArgument("unknown format %q", format)
	}

	out, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	if len(result.Totals) > 0 {
		fmt.Fprintf(os.Stderr, "count %d, totals %v\n", result.Count, result.Totals)
	} else {
		fmt.Fprintf(os.Stderr, "count %d\n", result.Count)
	}
	return nil
}
