package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nikkolasg/timed/pkg/timed"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>",
	Short: "Validate and print a CSV timing file",
	Long: `Checks that a CSV timing file has the function,duration_ms header and
that every row has two fields with a numeric duration, then prints the rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "o", "table", "output format: table, json or yaml")
}

type inspectResult struct {
	File  string      `json:"file" yaml:"file"`
	Rows  []timed.Row `json:"rows" yaml:"rows"`
	Count int         `json:"count" yaml:"count"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	rows, err := timed.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("invalid timing file %s: %w", args[0], err)
	}

	res := inspectResult{File: args[0], Rows: rows, Count: len(rows)}
	if res.Rows == nil {
		res.Rows = []timed.Row{}
	}
	return printInspect(cmd.OutOrStdout(), res, inspectFormat)
}

func printInspect(w io.Writer, res inspectResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)

	case "table":
		if len(res.Rows) == 0 {
			fmt.Fprintf(w, "%s: header only, no rows\n", res.File)
			return nil
		}
		table := tablewriter.NewWriter(w)
		table.Header("#", "Function", "Duration (ms)")
		for i, row := range res.Rows {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				row.Function,
				fmt.Sprintf("%.3f", row.DurationMs),
			})
		}
		table.Render()
		fmt.Fprintf(w, "%d rows\n", res.Count)
		return nil

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
