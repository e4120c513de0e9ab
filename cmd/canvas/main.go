package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tfcanvas/canvas/internal/config"
	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/logger"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/schema"
	"github.com/tfcanvas/canvas/internal/terraform"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "canvas <command>",
	Short:        "Turn Terraform configuration into block diagrams and back",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		// terminals get text logs unless the format is set explicitly
		if os.Getenv("CANVAS_LOG_FORMAT") == "" && term.IsTerminal(int(os.Stderr.Fd())) {
			c.Log.Format = "text"
		}
		cfg = c
		log = logger.New(os.Stderr, c.Log.Level, c.Log.Format)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), log))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CANVAS_CONFIG"), "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadCatalog(ctx context.Context) (*schema.Catalog, error) {
	return cfg.Catalog(ctx)
}

func parserOptions() parser.Options {
	opts := parser.DefaultOptions()
	opts.Columns = cfg.Graph.GridColumns
	return opts
}

func exportOptions(cat *schema.Catalog) terraform.Options {
	opts := terraform.DefaultOptions()
	opts.Props = cat
	opts.Region = cfg.Export.Region
	opts.ProviderVersion = cfg.Export.ProviderVersion
	opts.EmitTfvars = cfg.Export.EmitTfvars
	return opts
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
