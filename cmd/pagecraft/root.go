// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pagecraft/internal/registry"
)

// rootOptions are the persistent flags shared by all commands.
type rootOptions struct {
	registryFile string
	logFormat    string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pagecraft",
		Short: "PageCraft converts HTML into editable page layouts and renders them",
		Long: `PageCraft is the core of a visual page builder. It converts arbitrary
HTML into a section/row/column/module tree, renders trees back to HTML and
CSS, and serves published pages wrapped in their header and footer templates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logFormat, opts.verbose)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.registryFile, "registry", os.Getenv("REGISTRY_FILE"), "YAML file with extra module definitions")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", `log format: "text" or "json" (default: json when APP_ENV=production)`)
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newConvertCmd(opts),
		newRenderCmd(opts),
		newValidateCmd(),
		newBundleCmd(),
	)
	return cmd
}

// newLogger returns a text logger in development and a JSON logger in
// production, unless format selects one explicitly.
func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if format == "" {
		format = "text"
		if os.Getenv("APP_ENV") == "production" {
			format = "json"
		}
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// loadRegistry builds the module registry from the built-in catalog and
// the optional definitions file.
func (o *rootOptions) loadRegistry() (*registry.Registry, error) {
	reg, err := registry.Load(o.registryFile)
	if err != nil {
		return nil, fmt.Errorf("load module registry: %w", err)
	}
	return reg, nil
}

// readInput reads the file named by args[0], or stdin when no file or "-"
// is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
