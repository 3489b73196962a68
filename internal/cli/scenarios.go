package cli

import (
	"fmt"

	"github.com/ISmeneger/webform-e2e/internal/scenario"
	"github.com/ISmeneger/webform-e2e/internal/usecase"
	"github.com/spf13/cobra"
)

func scenariosCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "scenarios",
		Short: "Inspect the scenario catalog",
	}
	c.AddCommand(scenariosListCmd())
	return c
}

func scenariosListCmd() *cobra.Command {
	var only string
	var skipBrittle bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios in execution order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan := usecase.NewRunSuite(nil, nil).Plan(scenario.Filter{Only: only, SkipBrittle: skipBrittle})
			st := defaultStyles()
			out := cmd.OutOrStdout()
			for _, s := range plan {
				line := fmt.Sprintf("%02d %s", s.Order, s.Key())
				if s.Brittle {
					line += " " + st.skip.Render("(brittle)")
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "\n%d scenario(s)\n", len(plan))
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Only scenarios whose name contains this text")
	cmd.Flags().BoolVar(&skipBrittle, "skip-brittle", false, "Hide scenarios that assert on external content")
	return cmd
}
