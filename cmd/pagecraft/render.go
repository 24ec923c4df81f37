// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pagecraft/internal/renderer"
	"pagecraft/internal/transfer"
)

type renderOptions struct {
	mode     string
	format   string
	maxDepth int
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a layout tree to HTML and CSS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := renderer.Mode(opts.mode)
			if mode != renderer.ModePreview && mode != renderer.ModePublished {
				return fmt.Errorf("unknown mode %q", opts.mode)
			}
			if opts.format != "json" && opts.format != "html" {
				return fmt.Errorf("unknown format %q", opts.format)
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if err := checkTree(cmd, data); err != nil {
				return err
			}
			tree, err := transfer.ParseTree(data, nil)
			if err != nil {
				return err
			}
			reg, err := root.loadRegistry()
			if err != nil {
				return err
			}

			out := renderer.New(reg, renderer.WithMaxDepth(opts.maxDepth)).Render(tree, renderer.Options{Mode: mode})
			for _, s := range out.Skipped {
				slog.Warn("module skipped", "id", s.ID, "type", s.Type)
			}

			w := cmd.OutOrStdout()
			if opts.format == "html" {
				if out.CSS != "" {
					fmt.Fprintf(w, "<style>\n%s\n</style>\n", out.CSS)
				}
				_, err = fmt.Fprintln(w, out.HTML)
				return err
			}
			enc, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode output: %w", err)
			}
			_, err = fmt.Fprintln(w, string(enc))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", string(renderer.ModePreview), `render mode: "preview" or "published"`)
	cmd.Flags().StringVar(&opts.format, "format", "json", `output format: "json" or "html"`)
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum module nesting (0 for the default)")
	return cmd
}

// errInvalidTree is returned after the schema issues have been printed.
var errInvalidTree = errors.New("tree does not match the schema")

// checkTree validates data against the tree schema and prints any issues
// to stderr.
func checkTree(cmd *cobra.Command, data []byte) error {
	issues, err := transfer.ValidateTree(data)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(cmd.ErrOrStderr(), issue.String())
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %d issue(s)", errInvalidTree, len(issues))
	}
	return nil
}
