package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type outputFormat string

const (
	formatTable    outputFormat = "table"
	formatCSV      outputFormat = "csv"
	formatJSON     outputFormat = "json"
	formatMarkdown outputFormat = "markdown"
)

func parseFormat(value string) (outputFormat, error) {
	switch outputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case formatTable, "":
		return formatTable, nil
	case formatCSV:
		return formatCSV, nil
	case formatJSON:
		return formatJSON, nil
	case formatMarkdown:
		return formatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, csv, json, or markdown)", value)
	}
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "table", "Output format: table, csv, json, or markdown")
}

// writeListing renders tabular rows in the selected format. jsonValue is
// the structured form used for JSON output.
func writeListing(cmd *cobra.Command, format outputFormat, headers []string, rows [][]string, jsonValue any) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonValue)
	case formatCSV:
		fmt.Fprintln(out, buildTable(headers, rows).RenderCSV())
	case formatMarkdown:
		fmt.Fprintln(out, buildTable(headers, rows).RenderMarkdown())
	default:
		fmt.Fprintln(out, buildTable(headers, rows).Render())
	}
	return nil
}

func buildTable(headers []string, rows [][]string) table.Writer {
	columns := len(headers)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw
}
