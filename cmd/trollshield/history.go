package main

import (
	"fmt"

	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent commentaries",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	history, err := utils.NewHistory("")
	if err != nil {
		return err
	}
	entries, err := history.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "暂无历史记录")
		return nil
	}

	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for _, e := range entries {
		fmt.Fprintln(out, titleStyle.Render(panel.SafeText(e.Source)))
		fmt.Fprintln(out, metaStyle.Render(fmt.Sprintf("%s  %s  %s", e.Timestamp.Format("2006-01-02 15:04"), e.Model, e.PromptType)))
		fmt.Fprintln(out, panel.SafeText(e.Response))
		fmt.Fprintln(out)
	}
	return nil
}
