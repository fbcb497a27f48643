// Package logger 是基于 slog 的简单日志封装。
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config 日志配置
type Config struct {
	Level  string `yaml:"level"`
	Stdout bool   `yaml:"stdout"`
	File   string `yaml:"file"`
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(io.Discard, nil))

	savedCfg  Config
	savedFile *os.File
)

// Init 配置全局日志。File 为相对路径时相对于 configDir。
// Stdout 和 File 都未设置时丢弃所有日志。
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if savedFile != nil {
		savedFile.Close()
		savedFile = nil
	}
	savedCfg = cfg

	var initErr error
	if cfg.File != "" {
		path := expandPath(cfg.File, configDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			initErr = fmt.Errorf("logger: create log dir: %w", err)
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			savedFile = f
		}
	}

	rebuild(nil)
	return initErr
}

// SetOutput 在配置的输出之外再写入 w，测试使用
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	rebuild(w)
}

// Close 关闭日志文件
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if savedFile != nil {
		savedFile.Close()
		savedFile = nil
	}
	rebuild(nil)
}

// rebuild 调用时必须持有 mu
func rebuild(extra io.Writer) {
	opts := &slog.HandlerOptions{Level: parseLevel(savedCfg.Level)}

	var writers []io.Writer
	if extra != nil {
		writers = append(writers, extra)
	}
	if savedCfg.Stdout {
		writers = append(writers, os.Stdout)
	}
	if savedFile != nil {
		writers = append(writers, savedFile)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	base = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
}

// Debug 记录调试日志
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info 记录普通日志
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn 记录警告日志
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error 记录错误日志
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path, configDir string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) || configDir == "" {
		return path
	}
	return filepath.Join(configDir, path)
}
