/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/attrio/attrio/pkg/schemas"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <type id>",
		Short: "Print the resolved field list of a composite type",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrInvalidNumberOfArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := parseIDArg(args[0], "type id")
			if err != nil {
				return err
			}
			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			resolver := schemas.Provide(context.Background(), storage)
			def, err := resolver.ResolveType(typeID)
			if err != nil {
				return err
			}

			fmt.Printf("%s «%v»", def.Name, def.ID)
			if def.Terminal {
				fmt.Printf(" terminal %s\n", def.DataKind)
				return nil
			}
			if def.Unique {
				fmt.Print(" unique")
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tFLAGS")
			for _, f := range def.Fields {
				kind := f.DataKind.String()
				if f.Kind == schemas.FieldKind_Reference {
					kind = fmt.Sprintf("ref «%v»", f.Target)
					if f.Restriction != f.Target {
						kind += fmt.Sprintf(" (%v)", f.Restriction)
					}
				}
				flags := ""
				if f.Required {
					flags += "required "
				}
				if f.Multi {
					flags += "multi "
				}
				fmt.Fprintf(w, "%v\t%s\t%s\t%s\n", f.ID, f.DisplayName(), kind, flags)
			}
			return w.Flush()
		},
	}
}

func newObjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "object <type id> <object id>",
		Short: "Print an instance joined against its type's fields",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return ErrInvalidNumberOfArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := parseIDArg(args[0], "type id")
			if err != nil {
				return err
			}
			objectID, err := parseIDArg(args[1], "object id")
			if err != nil {
				return err
			}
			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			resolver := schemas.Provide(context.Background(), storage)
			inst, err := resolver.ResolveInstance(typeID, objectID)
			if err != nil {
				return err
			}

			fmt.Printf("%s «%v»\n", inst.Value, inst.ID)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, fv := range inst.Fields {
				value := fv.StoredValue
				if fv.Count > 1 {
					value = fmt.Sprintf("%s (%d values)", value, fv.Count)
				}
				fmt.Fprintf(w, "%s\t%s\n", fv.Field.DisplayName(), value)
			}
			return w.Flush()
		},
	}
}
