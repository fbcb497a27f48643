package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/shield"
	"github.com/Zacy-Sokach/TrollShield/internal/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	summarizeAnalysis bool
	summarizeExport   string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <page>",
	Short: "Generate one commentary and print it as it streams",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeAnalysis, "analysis", false, "also request the analysis & suggestions")
	summarizeCmd.Flags().StringVar(&summarizeExport, "export", "", "export the finished panel as HTML into this directory")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	orch := newOrchestrator(args[0], cfg.Language)
	id := orch.OnTriggerCommentary(ctx)

	p, err := streamPanel(ctx, out, orch, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	if p.State == panel.StateError {
		return errors.New(panel.RenderText(p.Response))
	}

	if summarizeAnalysis && orch.OnAnalysisClick(ctx, id) {
		orch.Wait()
		if p, _ = orch.Session().Panel(id); p.Action != nil && len(p.Action.Segments) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Render(p.Action.Label))
			fmt.Fprintln(out, panel.RenderText(p.Action.Segments))
		}
	}

	if summarizeExport != "" {
		path, err := tui.ExportPanel(p, summarizeExport)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "已导出:", path)
	}
	return nil
}

// streamPanel 边生成边输出面板 id 的纯文本内容，直到所有请求结束
func streamPanel(ctx context.Context, w io.Writer, orch *shield.Orchestrator, id int) (panel.Panel, error) {
	session := orch.Session()
	done := make(chan struct{})
	go func() {
		orch.Wait()
		close(done)
	}()

	written := 0
	flush := func() {
		p, ok := session.Panel(id)
		if !ok || p.Loading || p.State == panel.StateError {
			return
		}
		if text := panel.SafeText(p.ResponseText()); len(text) > written {
			io.WriteString(w, text[written:])
			written = len(text)
		}
	}

	for {
		select {
		case <-session.Updates():
			flush()
		case <-done:
			flush()
			p, _ := session.Panel(id)
			return p, nil
		case <-ctx.Done():
			return panel.Panel{}, ctx.Err()
		}
	}
}
