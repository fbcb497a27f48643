package main

import (
	"errors"
	"fmt"

	"github.com/Zacy-Sokach/TrollShield/internal/update"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "TrollShield %s\n", Version)
		if !versionCheck {
			return nil
		}

		hasUpdate, latest, err := update.NewChecker().CheckForUpdate(cmd.Context(), Version)
		if errors.Is(err, update.ErrNotComparable) {
			fmt.Fprintf(out, "开发版本，最新发布为 %s\n", latest.TagName)
			return nil
		}
		if err != nil {
			return fmt.Errorf("检查更新失败: %w", err)
		}
		if hasUpdate {
			fmt.Fprintln(out, lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("发现新版本 "+latest.TagName))
			fmt.Fprintln(out, latest.HTMLURL)
		} else {
			fmt.Fprintln(out, "已是最新版本")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
