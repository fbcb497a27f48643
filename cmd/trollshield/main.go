package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/extract"
	"github.com/Zacy-Sokach/TrollShield/internal/logger"
	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/shield"
	"github.com/Zacy-Sokach/TrollShield/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "trollshield [page]",
	Short: "TrollShield - AI troll commentary for any page",
	Long: `TrollShield extracts the readable text of a page (URL, local HTML file or "-" for stdin)
and streams an AI generated commentary into panels in your terminal.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runTUI(cmd, args)
	},
}

func main() {
	// 添加panic恢复
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "程序发生panic: %v\n", r)
			fmt.Fprintln(os.Stderr, "堆栈跟踪:")
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Close()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setupLogger 按配置文件初始化日志，配置读取失败时使用默认值
func setupLogger(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		return nil
	}
	initLogger(cfg.Log)
	return nil
}

func initLogger(cfg logger.Config) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		configDir = "."
	}
	if err := logger.Init(cfg, configDir); err != nil {
		fmt.Fprintln(os.Stderr, "初始化日志失败:", err)
	}
}

// newOrchestrator 为页面 location 创建协调器，每次触发都重新读取配置文件
func newOrchestrator(location, language string) *shield.Orchestrator {
	opts := []shield.Option{shield.WithLanguage(language)}

	history, err := utils.NewHistory("")
	if err != nil {
		logger.Warn("无法打开历史记录", "error", err)
	} else {
		opts = append(opts, shield.WithHistory(history))
	}

	return shield.New(
		panel.NewSession(),
		config.NewFileStore(""),
		extract.NewSource(location),
		opts...,
	)
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
