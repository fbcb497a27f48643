package main

import (
	"errors"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiExportDir string

var tuiCmd = &cobra.Command{
	Use:   "tui <page>",
	Short: "Open the interactive panel view for a page (default command)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&tuiExportDir, "export-dir", ".", "directory for exported panels")
	}
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("需要在交互式终端中运行，非交互环境请使用 summarize 命令")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	// 界面模式下日志不能写到标准输出
	logCfg := cfg.Log
	logCfg.Stdout = false
	initLogger(logCfg)

	location := args[0]
	orch := newOrchestrator(location, cfg.Language)
	model := tui.New(cmd.Context(), orch,
		tui.WithSource(location),
		tui.WithLanguage(cfg.Language),
		tui.WithExportDir(tuiExportDir),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
