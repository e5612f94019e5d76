package cmd

import (
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/filter"
	"github.com/KaramelBytes/conectividad/internal/session"
	"github.com/spf13/cobra"
)

// loadDataset reads the survey file and prepares the shared data. A positional
// file argument takes precedence over the configured data_path.
func loadDataset(args []string) (*session.Dataset, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	opt, err := c.LoadOptions()
	if err != nil {
		return nil, err
	}
	path := c.DataPath
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	return session.NewDataset(t), nil
}

// filterFlags are the selection flags shared by commands that work on a
// filtered view. An unset flag selects every option in that dimension.
type filterFlags struct {
	municipalities []string
	spaceTypes     []string
	ratings        []float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.municipalities, "municipio", nil, "municipalities to include (repeatable; default all)")
	cmd.Flags().StringSliceVar(&f.spaceTypes, "tipo", nil, "space types to include (repeatable; default all)")
	cmd.Flags().Float64SliceVar(&f.ratings, "calificacion", nil, "ratings to include (repeatable; default all)")
}

func (f *filterFlags) selection(cmd *cobra.Command, opts dataset.Options) filter.Selection {
	sel := filter.All(opts)
	if cmd.Flags().Changed("municipio") {
		sel.Municipalities = f.municipalities
	}
	if cmd.Flags().Changed("tipo") {
		sel.SpaceTypes = f.spaceTypes
	}
	if cmd.Flags().Changed("calificacion") {
		sel.Ratings = f.ratings
	}
	return sel.Normalize()
}

// filtered loads the survey and applies the command's filter flags.
func (f *filterFlags) filtered(cmd *cobra.Command, args []string) (*session.Dataset, *dataset.Table, error) {
	data, err := loadDataset(args)
	if err != nil {
		return nil, nil, err
	}
	sel := f.selection(cmd, data.Options)
	t := filter.Apply(data.Table, sel)
	if t.Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: no sites match the selected filters")
	}
	return data, t, nil
}
