// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagecraft/internal/transfer"
)

func newBundleCmd() *cobra.Command {
	var rewrite bool

	cmd := &cobra.Command{
		Use:   "bundle [bundle.json]",
		Short: "Check a layout bundle and optionally rewrite it with fresh ids",
		Long: `Imports a layout bundle the way the server would: metadata is validated,
slugs are normalized and every tree gets new ids. With --rewrite the
imported site is exported again to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			site, err := transfer.ImportBundle(data, nil)
			if err != nil {
				return err
			}

			if rewrite {
				out, err := transfer.ExportBundle(site.Name, site.Pages, site.Header, site.Footer)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "bundle %q: %d page(s), header: %t, footer: %t\n",
				site.Name, len(site.Pages), site.Header != nil, site.Footer != nil)
			for _, p := range site.Pages {
				home := ""
				if p.IsHomepage {
					home = " (homepage)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  /%s %s%s\n", p.Slug, p.Title, home)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "print the bundle re-exported with fresh ids")
	return cmd
}
