package main

import (
	"fmt"
	"strings"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/utils"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Configure the API key, prompt and language",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// 第一步：API Key、模型和语言
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("Create one at https://platform.openai.com/api-keys").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}).
				Value(&cfg.APIKey),
			huh.NewInput().
				Title("Model").
				Value(&cfg.Model),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("繁體中文", "zh-TW"),
					huh.NewOption("English", "en"),
				).
				Value(&cfg.Language),
			huh.NewSelect[string]().
				Title("Prompt").
				Options(
					huh.NewOption("AI 酸民 (default)", config.PromptTypeDefault),
					huh.NewOption("自訂 (custom)", config.PromptTypeCustom),
				).
				Value(&cfg.PromptType),
		),
	).Run()
	if err != nil {
		return err
	}

	// 第二步：自订提示词
	if cfg.PromptType == config.PromptTypeCustom {
		temperature := string(cfg.CustomTemperature)
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Custom prompt").
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("prompt is required")
						}
						return nil
					}).
					Value(&cfg.CustomPrompt),
				huh.NewInput().
					Title("Temperature").
					Description("Leave empty to use the API default").
					Validate(func(s string) error {
						_, _, err := config.Temperature(s).Float()
						return err
					}).
					Value(&temperature),
			),
		).Run()
		if err != nil {
			return err
		}
		cfg.CustomTemperature = config.Temperature(strings.TrimSpace(temperature))
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("配置已保存!"))
	fmt.Println("  Config:", utils.GetConfigPathForDisplay())
	return nil
}
