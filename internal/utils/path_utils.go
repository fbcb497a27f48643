package utils

import (
	"os"
	"path/filepath"
)

const appDirName = "trollshield"

// GetConfigDir 获取跨平台的配置目录
// Windows: %APPDATA%/trollshield
// Linux/macOS: ~/.config/trollshield
func GetConfigDir() (string, error) {
	// 检查是否设置了自定义配置目录
	if configHome := os.Getenv("TROLLSHIELD_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}

	// Windows: 使用 APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appDirName), nil
	}

	// Linux/macOS: 使用 XDG_CONFIG_HOME 或 ~/.config
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// GetConfigPathForDisplay 获取用于显示的配置路径字符串
func GetConfigPathForDisplay() string {
	if dir, err := GetConfigDir(); err == nil {
		return filepath.Join(dir, "config.yaml")
	}
	return "~/.config/trollshield/config.yaml"
}
