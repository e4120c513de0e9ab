package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tfcanvas/canvas/internal/registry"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect provider schema versions and resource properties",
}

var schemaVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List available schema versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		versions, err := cat.Versions(cmd.Context())
		if err != nil {
			return err
		}
		st := cat.Status()
		if jsonOutput {
			return writeJSON(os.Stdout, map[string]any{"versions": versions, "active": st})
		}
		for _, v := range versions {
			marker := " "
			if v == st.Version && !st.Fallback {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, v)
		}
		if st.Fallback {
			fmt.Fprintf(os.Stderr, "using built-in property table: %s\n", st.Reason)
		}
		return nil
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <resource-type>",
	Short: "Show the properties of a resource type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := registry.ByCanonicalName(args[0])
		if !rt.IsKnown() {
			return fmt.Errorf("unknown resource type %q", args[0])
		}
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defs := cat.Properties(rt)
		if jsonOutput {
			return writeJSON(os.Stdout, defs)
		}
		fmt.Printf("%s (%s, %s)\n\n", rt.DisplayName(), rt.CanonicalName(), rt.Category())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tREQUIRED\tDEFAULT")
		for _, d := range defs {
			req := ""
			if d.Required {
				req = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, req, d.Default)
		}
		return w.Flush()
	},
}

func init() {
	schemaCmd.AddCommand(schemaVersionsCmd)
	schemaCmd.AddCommand(schemaShowCmd)
}
