// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pagecraft/internal/document"
	"pagecraft/internal/transfer"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [tree.json]",
		Short: "Check a layout tree file against the tree schema",
		Long: `Reports schema violations with their JSON pointer location and warns
about duplicate node ids and trees without any module.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if err := checkTree(cmd, data); err != nil {
				return err
			}

			tree, err := transfer.ParseTree(data, document.SequentialIDs("generated"))
			if err != nil {
				return err
			}
			if dups := document.DuplicateIDs(tree); len(dups) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: duplicate ids: %s\n", strings.Join(dups, ", "))
			}
			if tree.IsEmpty() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: tree has no modules")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tree is valid: %d section(s), %d module(s)\n",
				len(tree.Sections), len(tree.Modules()))
			return nil
		},
	}
}
