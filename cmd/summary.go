package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/summary"
	"github.com/KaramelBytes/conectividad/internal/utils"
	"github.com/spf13/cobra"
)

var (
	summaryFilters filterFlags
	summaryFormat  string
	summaryChart   string
	summaryForce   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Per-municipality mean download, upload and rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		_, t, err := summaryFilters.filtered(cmd, args)
		if err != nil {
			return err
		}
		rows := summary.Summarize(t)
		out := cmd.OutOrStdout()

		switch summaryFormat {
		case "table", "":
			if err := summary.WriteTable(out, rows, c.Policy()); err != nil {
				return err
			}
		case "markdown", "md":
			fmt.Fprint(out, summary.Markdown(rows))
		case "json":
			b, err := utils.PrettyJSON(rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		default:
			return fmt.Errorf("invalid --format: %s (use table, markdown or json)", summaryFormat)
		}

		if summaryChart != "" {
			var buf bytes.Buffer
			if err := summary.Chart(&buf, rows); err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
			if err := utils.WriteOutput(summaryChart, buf.Bytes(), summaryForce); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Chart written to %s\n", summaryChart)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "table", "output format: table, markdown or json")
	summaryCmd.Flags().StringVar(&summaryChart, "chart", "", "also write a PNG bar chart to this path")
	summaryCmd.Flags().BoolVar(&summaryForce, "force", false, "overwrite an existing chart file")
}
