package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/parser"
)

var (
	parseOutput  string
	parseSummary bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|dir>...",
	Short: "Parse Terraform files into a diagram",
	Long: `Parse .tf files (directories are scanned one level deep) as one
configuration and print the resulting diagram JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		p := parser.New(cat, parserOptions())
		res := p.ParseFiles(files)
		printWarnings(res.Warnings)

		if parseSummary {
			printResources(res)
			return nil
		}
		d := diagram.FromParse(p, res, diagram.Metadata{
			Name:          filepath.Base(args[0]),
			SchemaVersion: cat.Status().Version,
		})
		out, err := openOutput(parseOutput)
		if err != nil {
			return err
		}
		defer out.Close()
		return writeJSON(out, d)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "-", "write the diagram to this file")
	parseCmd.Flags().BoolVar(&parseSummary, "summary", false, "print a resource table instead of the diagram")
}

// collectFiles reads the named files; directories contribute their .tf files.
func collectFiles(paths []string) ([]parser.File, error) {
	var files []parser.File
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		names := []string{path}
		if info.IsDir() {
			names, err = filepath.Glob(filepath.Join(path, "*.tf"))
			if err != nil {
				return nil, err
			}
		}
		for _, name := range names {
			data, err := os.ReadFile(name)
			if err != nil {
				return nil, err
			}
			files = append(files, parser.File{Name: name, Content: data})
		}
	}
	return files, nil
}

func printResources(res *parser.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tFILE\tLINE\tDEPENDS ON")
	for _, r := range res.Resources {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Address(), r.Filename, r.Line, strings.Join(r.DependsOn, ", "))
	}
	w.Flush()
	if len(res.Variables) > 0 {
		fmt.Println()
		fmt.Fprintln(w, "VARIABLE\tTYPE\tDEFAULT")
		for _, v := range res.Variables {
			def := "-"
			if v.HasDefault {
				def = v.Default
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Type, def)
		}
		w.Flush()
	}
}
