package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/utils"
	"github.com/spf13/cobra"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "List the filter values found in the survey",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadDataset(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if optionsJSON {
			b, err := utils.PrettyJSON(data.Options)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		ratings := make([]string, len(data.Options.Ratings))
		for i, r := range data.Options.Ratings {
			ratings[i] = dataset.FormatNumber(r)
		}
		fmt.Fprintf(out, "Sitios: %d cargados, %d válidos\n", data.Loaded, data.Table.Len())
		fmt.Fprintf(out, "Municipio: %s\n", strings.Join(data.Options.Municipalities, ", "))
		fmt.Fprintf(out, "Tipo de espacio: %s\n", strings.Join(data.Options.SpaceTypes, ", "))
		fmt.Fprintf(out, "Calificación: %s\n", strings.Join(ratings, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "print as JSON")
}
