package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template <schema>",
		Short: "Write a blank .xlsx template for a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.ParseSchema(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = importer.TemplateFileName(schema)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := importer.WriteTemplate(f, schema); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: <schema>_template.xlsx)")
	return cmd
}

func newSchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List schemas in detection order with their headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tREQUIRED\tHEADERS")
			for _, info := range importer.Schemas() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					info.Schema.Key(),
					info.Name,
					strings.Join(info.Required, ","),
					strings.Join(info.Headers, ","),
				)
			}
			return tw.Flush()
		},
	}
}
