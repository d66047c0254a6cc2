/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/grants"
	"github.com/attrio/attrio/pkg/irows"
)

func newCheckCmd() *cobra.Command {
	var (
		typeArg   string
		levelArg  string
		principal string
		admin     bool
	)

	cmd := &cobra.Command{
		Use:   "check <row id>",
		Short: "Resolve whether a principal is granted access to a row",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrInvalidNumberOfArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "row id")
			if err != nil {
				return err
			}
			typeID := irows.NullID
			if typeArg != "" {
				if typeID, err = parseIDArg(typeArg, "type id"); err != nil {
					return err
				}
			}
			var level grants.Level
			switch strings.ToUpper(levelArg) {
			case "READ":
				level = grants.Level_Read
			case "WRITE":
				level = grants.Level_Write
			default:
				return coreutils.ErrInvalidArgument("unknown level %q, want READ or WRITE", levelArg)
			}
			p := grants.Principal{Admin: admin}
			if principal != "" {
				if p.ID, err = parseIDArg(principal, "principal id"); err != nil {
					return err
				}
			}

			storage, stop, err := openStorage()
			if err != nil {
				return err
			}
			defer stop()

			resolver := grants.Provide(context.Background(), storage, p)
			if resolver.CheckGrant(id, typeID, level) {
				fmt.Printf("%s granted on row «%v»\n", level, id)
				return nil
			}
			return coreutils.ErrAccessDenied("%s on row «%v» for principal «%v»", level, id, p.ID)
		},
	}

	cmd.Flags().StringVar(&typeArg, "type", "", "Type id hint used before structural fallback")
	cmd.Flags().StringVar(&levelArg, "level", "READ", "Requested level: READ or WRITE")
	cmd.Flags().StringVar(&principal, "principal", "", "Principal (role) row id")
	cmd.Flags().BoolVar(&admin, "admin", false, "Act as the distinguished admin principal")
	return cmd
}
