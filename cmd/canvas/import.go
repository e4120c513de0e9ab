package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tfcanvas/canvas/internal/importer"
	"github.com/tfcanvas/canvas/internal/workspace"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <locator>",
	Short: "Import a GitHub repository directory as a diagram",
	Long: `Fetch the .tf files under a repository locator and print the diagram.

Locators look like github.com/owner/repo, owner/repo,
https://github.com/owner/repo/tree/branch/path or .../blob/branch/path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cat, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		gh := importer.NewGitHub(cfg.GitHub.APIURL, cfg.GitHub.Token)
		gh.Client.Timeout = cfg.GitHub.Timeout.Duration

		ws := workspace.New(workspace.Config{Catalog: cat, Fetcher: gh, Parser: parserOptions()})
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go ws.Run(runCtx) //nolint:errcheck

		out, err := ws.Import(ctx, args[0])
		if err != nil {
			return err
		}
		printWarnings(out.Warnings)
		if jsonOutput {
			if err := writeJSON(os.Stdout, out); err != nil {
				return err
			}
		}
		if !out.OK() {
			return errors.New(out.Message)
		}
		fmt.Fprintln(os.Stderr, out.Message)

		d, err := ws.Snapshot(ctx)
		if err != nil {
			return err
		}
		w, err := openOutput(importOutput)
		if err != nil {
			return err
		}
		defer w.Close()
		return writeJSON(w, d)
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "-", "write the diagram to this file")
}
