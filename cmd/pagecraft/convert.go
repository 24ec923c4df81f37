// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pagecraft/internal/converter"
	"pagecraft/internal/document"
)

type convertOptions struct {
	report      bool
	maxNodes    int
	placeholder string
}

// convertOutput is written with --report.
type convertOutput struct {
	Tree       document.Tree        `json:"tree"`
	Confidence converter.Confidence `json:"confidence"`
	Report     converter.Report     `json:"report"`
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [file.html]",
		Short: "Convert an HTML document into a layout tree",
		Long: `Reads HTML from a file or stdin and writes the layout tree as JSON.
Conversion never fails: unrecognized markup is kept as html modules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			reg, err := root.loadRegistry()
			if err != nil {
				return err
			}
			copts := []converter.Option{converter.WithLimits(converter.Limits{MaxNodes: opts.maxNodes})}
			if opts.placeholder != "" {
				copts = append(copts, converter.WithPlaceholderImage(opts.placeholder))
			}
			tree, report := converter.New(reg, copts...).ConvertReport(string(src))

			var out any = tree
			if opts.report {
				out = convertOutput{Tree: tree, Confidence: report.Confidence(), Report: report}
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode tree: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.report, "report", false, "include the conversion report")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", 0, "maximum DOM nodes to process (0 for the default)")
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "", "image URL used when an image has no source")
	return cmd
}
