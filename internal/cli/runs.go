package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/infra/runstore"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved run artifacts",
	}
	c.AddCommand(runsListCmd(), runsShowCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			refs, err := ws.store.ListRuns()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no runs found)")
				return nil
			}
			st := defaultStyles()
			for _, r := range refs {
				status := st.pass.Render("ok")
				if r.Failures > 0 {
					status = st.fail.Render(fmt.Sprintf("%d failed", r.Failures))
				}
				fmt.Fprintf(out, "%s  %s  env=%s  %s\n", r.ID, r.StartedAt.Local().Format(time.DateTime), r.Env, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	var workspace, query string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved run, optionally narrowed by a JSONPath query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			doc, err := ws.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if query == "" {
				var buf bytes.Buffer
				if err := json.Indent(&buf, doc, "", "  "); err != nil {
					return err
				}
				buf.WriteByte('\n')
				_, err = buf.WriteTo(out)
				return err
			}

			v, err := runstore.Query(doc, query)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath expression, e.g. '$.Backends[*].Scenarios[?(@.Error)].Name'")
	return cmd
}
