package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iabetor/hatenaexport/internal/atompub"
)

// Config 是 hatenaexport 的顶层配置结构。
type Config struct {
	Blog     BlogConfig     `yaml:"blog"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// BlogConfig Hatena Blog 相关配置。
type BlogConfig struct {
	User   string `yaml:"user"`
	BlogID string `yaml:"blog_id"`
	// EntriesURL 直接指定条目集合端点，为空时由 User 和 BlogID 生成。
	EntriesURL string `yaml:"entries_url"`
	// APIKey 为空时从环境变量 HATENA_BLOG_ATOMPUB_KEY 读取。
	APIKey string `yaml:"api_key"`
}

// ExportConfig 导出配置。
type ExportConfig struct {
	Year      int    `yaml:"year"`
	OutputDir string `yaml:"output_dir"` // 默认 entries_{year}
	PlainText bool   `yaml:"plain_text"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DatabaseConfig 导出清单数据库，Path 为空则不记录。
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TracingConfig OTLP 追踪配置，Endpoint 为空则不导出。
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default 返回未读取配置文件时使用的配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "hatenaexport"
	}
	if cfg.Blog.BlogID == "" && cfg.Blog.User != "" {
		cfg.Blog.BlogID = cfg.Blog.User + ".hatenablog.com"
	}
	if strings.HasPrefix(cfg.Database.Path, "~/") {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Database.Path = home + cfg.Database.Path[1:]
		}
	}
	cfg.Blog.APIKey = strings.TrimSpace(cfg.Blog.APIKey)
}

// FeedURL 返回遍历的起始 URI。
func (c *Config) FeedURL() string {
	if c.Blog.EntriesURL != "" {
		return c.Blog.EntriesURL
	}
	return atompub.EntriesURL(c.Blog.User, c.Blog.BlogID)
}

// OutputDir 返回输出目录。
func (c *Config) OutputDir() string {
	if c.Export.OutputDir != "" {
		return c.Export.OutputDir
	}
	return fmt.Sprintf("entries_%d", c.Export.Year)
}

// Validate 检查必需的配置项。
func (c *Config) Validate() error {
	if c.Blog.User == "" {
		return fmt.Errorf("未设置 blog.user")
	}
	if c.Export.Year <= 0 {
		return fmt.Errorf("export.year 无效: %d", c.Export.Year)
	}
	return nil
}
