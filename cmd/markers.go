package cmd

import (
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/KaramelBytes/conectividad/internal/utils"
	"github.com/spf13/cobra"
)

var (
	markersFilters filterFlags
	markersLayer   string
)

var markersCmd = &cobra.Command{
	Use:   "markers [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Print the map view (markers, legend, tiles) as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		layer, err := markers.ParseLayer(markersLayer)
		if err != nil {
			return err
		}
		_, t, err := markersFilters.filtered(cmd, args)
		if err != nil {
			return err
		}
		view, err := markers.Render(t, layer, c.Policy(), c.MapSettings())
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(view)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markersCmd)
	markersFilters.register(markersCmd)
	markersCmd.Flags().StringVar(&markersLayer, "layer", string(markers.LayerRating), "layer: rating, download or upload")
}
