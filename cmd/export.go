package cmd

import (
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/export"
	"github.com/KaramelBytes/conectividad/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportFilters filterFlags
	exportOutput  string
	exportForce   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Write the filtered sites to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, t, err := exportFilters.filtered(cmd, args)
		if err != nil {
			return err
		}
		b, err := export.XLSX(t)
		if err != nil {
			return err
		}
		if err := utils.WriteOutput(exportOutput, b, exportForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d sites to %s\n", t.Len(), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", export.FileName, "output .xlsx path")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite an existing file")
}
