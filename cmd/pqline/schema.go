package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/vegasq/pqline/reader"
)

func newSchemaCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schema <file.parquet>",
		Short: "Show the columns of a Parquet file and how pqline renders them",
		Long: `Show every leaf column of a Parquet file with its Parquet types and the
column type pqline formats it as. Columns marked "unsupported" cannot be
selected with --column.

For a glob pattern the first matching file is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := reader.ExpandPattern(args[0])
			if err != nil {
				return err
			}
			if len(files) > 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "# Showing schema from: %s (%d files matched)\n", files[0], len(files))
			}
			return printSchema(cmd.OutOrStdout(), files[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schema as JSON")
	return cmd
}

func printSchema(w io.Writer, path string, asJSON bool) error {
	infos, err := reader.ExtractSchemaInfo(path)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"name", "type", "column type", "physical", "logical", "required", "repeated"})
	table.SetAutoWrapText(false)
	for _, info := range infos {
		table.Append([]string{
			info.Name,
			info.Type,
			info.ColumnType,
			info.PhysicalType,
			info.LogicalType,
			strconv.FormatBool(info.Required),
			strconv.FormatBool(info.Repeated),
		})
	}
	table.Render()
	return nil
}
