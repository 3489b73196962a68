package cli

import (
	"fmt"

	"github.com/ISmeneger/webform-e2e/internal/buildinfo"
	"github.com/ISmeneger/webform-e2e/internal/infra/pwbackend"
	"github.com/spf13/cobra"
)

func installCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the playwright driver and chromium",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pwbackend.Install(); err != nil {
				return fmt.Errorf("install playwright: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "playwright driver and chromium installed")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
