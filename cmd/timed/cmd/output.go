package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nikkolasg/timed/internal/config"
	"github.com/nikkolasg/timed/pkg/timed"
)

var outputShowFormat string

var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Show the timing output resolved from flags, config and environment",
	Args:  cobra.NoArgs,
	RunE:  runOutput,
}

func init() {
	rootCmd.AddCommand(outputCmd)
	outputCmd.Flags().StringVarP(&outputShowFormat, "format", "o", "text", "output format: text, json or yaml")
}

type outputReport struct {
	Output     timed.Output  `json:"output" yaml:"output"`
	ConfigFile string        `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Config     config.Config `json:"config" yaml:"config"`
}

func runOutput(cmd *cobra.Command, args []string) error {
	rep := outputReport{
		Output:     loader.Output(),
		ConfigFile: loader.ConfigFileUsed(),
		Config:     cfg,
	}
	return printOutput(cmd.OutOrStdout(), rep, outputShowFormat)
}

func printOutput(w io.Writer, rep outputReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rep)

	case "text":
		fmt.Fprintf(w, "Output:     %s\n", rep.Output)
		if rep.ConfigFile != "" {
			fmt.Fprintf(w, "Config:     %s\n", rep.ConfigFile)
		}
		fmt.Fprintf(w, "Log level:  %s\n", rep.Config.LogLevel)
		fmt.Fprintf(w, "Log format: %s\n", rep.Config.LogFormat)
		return nil

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
