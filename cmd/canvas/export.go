package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/terraform"
)

var (
	exportDir       string
	exportNoTfvars  bool
	exportNoOutputs bool
	exportParallel  int
)

var exportCmd = &cobra.Command{
	Use:   "export <diagram.json|->",
	Short: "Generate Terraform files from a diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var d diagram.Diagram
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}

		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		opts := exportOptions(cat)
		opts.EmitTfvars = opts.EmitTfvars && !exportNoTfvars
		opts.EmitOutputs = !exportNoOutputs
		opts.MaxParallel = exportParallel
		res := terraform.NewExporter(opts).Export(&d)

		if !res.Success {
			if jsonOutput {
				_ = writeJSON(os.Stdout, res)
			} else {
				printErrors(res.Errors)
				printWarnings(res.Warnings)
			}
			return fmt.Errorf("export failed with %d errors", len(res.Errors))
		}
		printWarnings(res.Warnings)

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		for _, name := range res.FileNames() {
			path := filepath.Join(exportDir, name)
			if err := os.WriteFile(path, res.Files[name], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Println("wrote", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "output", "output directory for Terraform files")
	exportCmd.Flags().BoolVar(&exportNoTfvars, "no-tfvars", false, "do not generate terraform.tfvars")
	exportCmd.Flags().BoolVar(&exportNoOutputs, "no-outputs", false, "do not generate outputs.tf")
	exportCmd.Flags().IntVar(&exportParallel, "parallel", 0, "max parallel nodes per tier (0 = auto)")
}
