package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zacy-Sokach/TrollShield/internal/logger"
	"github.com/Zacy-Sokach/TrollShield/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	PromptTypeDefault = "default"
	PromptTypeCustom  = "custom"

	DefaultModel    = "gpt-4o-mini"
	DefaultLanguage = "zh-TW"
)

// Config 对应 config.yaml
type Config struct {
	APIKey            string        `yaml:"api_key"`
	PromptType        string        `yaml:"prompt_type"`
	CustomPrompt      string        `yaml:"custom_prompt"`
	Model             string        `yaml:"model"`
	CustomTemperature Temperature   `yaml:"custom_temperature"`
	Language          string        `yaml:"language"`
	Endpoint          string        `yaml:"endpoint,omitempty"`
	Log               logger.Config `yaml:"log"`
}

// Options 是一次请求开始时读取的只读配置快照
type Options = Config

// Temperature 以文本形式保存温度，yaml 中写数字或字符串都可以
type Temperature string

// UnmarshalYAML 接受任意标量
func (t *Temperature) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("custom_temperature 必须是标量 (line %d)", value.Line)
	}
	*t = Temperature(value.Value)
	return nil
}

// Float 解析温度；空字符串返回 ok=false
func (t Temperature) Float() (v float64, ok bool, err error) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("无效的温度值 %q: %w", s, err)
	}
	return v, true, nil
}

// HasAPIKey 判断是否已配置 API Key
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// IsDefaultPrompt 判断是否使用内置酸民提示词
func (c *Config) IsDefaultPrompt() bool {
	return c.PromptType == PromptTypeDefault
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(configPath)
}

func loadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := &Config{}
		applyDefaults(config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.PromptType == "" {
		config.PromptType = PromptTypeDefault
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
}

func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	// 配置里有 API Key，只允许当前用户读取
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// FileStore 每次读取都重新加载配置文件，修改后下一次触发即生效
type FileStore struct {
	path string
}

// NewFileStore path 为空时使用默认配置路径
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load 读取当前配置
func (s *FileStore) Load(ctx context.Context) (Options, error) {
	if err := ctx.Err(); err != nil {
		return Options{}, err
	}

	path := s.path
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			return Options{}, err
		}
		path = p
	}

	config, err := loadConfigFrom(path)
	if err != nil {
		return Options{}, err
	}
	return *config, nil
}

func getConfigPath() (string, error) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}
