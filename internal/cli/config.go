package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/ISmeneger/webform-e2e/internal/usecase"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	c.AddCommand(configShowCmd())
	return c
}

func configShowCmd() *cobra.Command {
	var workspace, env string
	var sets []string
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show settings for an environment after all layers are merged",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			view, err := usecase.NewResolveConfig(ws.settings).Execute(resolveEnv(ws, env, os.LookupEnv), overrides, reveal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workspace: %s\n", ws.root)
			fmt.Fprintf(out, "Env:       %s\n\n", view.Env)

			keys := make([]string, 0, len(view.Vars))
			for k := range view.Vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %s = %s\n", k, view.Vars[k])
			}

			if len(view.Missing) > 0 {
				st := defaultStyles()
				fmt.Fprintln(out)
				for _, k := range view.Missing {
					fmt.Fprintf(out, "  %s %s is not set\n", st.fail.Render("missing:"), k)
				}
				return fmt.Errorf("%d required setting(s) missing", len(view.Missing))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment name (default: $WEBFORM_ENV, then webform.yaml)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a setting (key=value); repeatable")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print sensitive values in clear")
	return cmd
}
