package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ISmeneger/webform-e2e/internal/usecase"
)

func envsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "envs",
		Short: "Inspect the environment sources of a workspace",
	}

	c.AddCommand(envsListCmd())
	return c
}

func envsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List environments and whether each resolves every required key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.settings.ListEnvironments()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no environments found)")
				return nil
			}

			active := resolveEnv(ws, "", os.LookupEnv)
			fmt.Fprintf(out, "Workspace: %s\n\n", ws.root)

			resolve := usecase.NewResolveConfig(ws.settings)
			tbl := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("", "ENV", "SOURCE", "REQUIRED")
			for _, r := range refs {
				mark := ""
				if r.Name == active {
					mark = "*"
				}
				rel, relErr := filepath.Rel(ws.root, r.Path)
				if relErr != nil {
					rel = r.Path
				}

				status := "ok"
				view, err := resolve.Execute(r.Name, nil, false)
				switch {
				case err != nil:
					status = "error: " + err.Error()
				case len(view.Missing) > 0:
					status = "missing " + strings.Join(view.Missing, ", ")
				}
				tbl.Row(mark, r.Name, rel, status)
			}
			fmt.Fprintln(out, tbl.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
