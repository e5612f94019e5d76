package cmd

import (
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/rubric"
	"github.com/KaramelBytes/conectividad/internal/utils"
	"github.com/spf13/cobra"
)

var rubricJSON bool

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Show the evaluation rubric behind each site's rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if rubricJSON {
			b, err := utils.PrettyJSON(rubric.Entries())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprintln(out, rubric.Intro)
		fmt.Fprintln(out)
		if err := rubric.WriteTable(out); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPuntaje máximo: %d\n", rubric.MaxScore())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rubricCmd)
	rubricCmd.Flags().BoolVar(&rubricJSON, "json", false, "print as JSON")
}
