package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体，进程启动时构造一次，之后以引用传入各组件
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	DB      DBConfig      `yaml:"db"`
	PTT     PTTConfig     `yaml:"ptt"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
	Limit   LimitConfig   `yaml:"limit"`
}

// LLMConfig 情感分析模型相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // 单次调用超时，秒
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// PTTConfig 看板爬虫配置
type PTTConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BaseURL      string `yaml:"base_url"`
	KeywordsFile string `yaml:"keywords_file"`
	MaxArticles  int    `yaml:"max_articles"`
	Timeout      int    `yaml:"timeout"` // 秒
}

// YouTubeConfig 影片爬虫配置
type YouTubeConfig struct {
	Enabled      bool   `yaml:"enabled"`
	APIKey       string `yaml:"api_key"`
	KeywordsFile string `yaml:"keywords_file"`
	Region       string `yaml:"region"`
	MaxVideos    int    `yaml:"max_videos"`
	MaxComments  int    `yaml:"max_comments"`
}

// ArchiveConfig CSV 归档配置
type ArchiveConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LimitConfig 模型调用限流配置
type LimitConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，并用环境变量覆盖凭据类字段
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv 凭据与连接参数允许从环境变量注入，便于部署时不落盘
func (c *Config) applyEnv() {
	overrideString(&c.DB.Host, "DB_HOST")
	overrideString(&c.DB.User, "DB_USER")
	overrideString(&c.DB.Password, "DB_PASSWORD")
	overrideString(&c.DB.Name, "DB_NAME")
	overrideInt(&c.DB.Port, "DB_PORT")
	overrideString(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	overrideString(&c.LLM.APIKey, "LLM_API_KEY")
	overrideString(&c.LLM.BaseURL, "LLM_BASE_URL")
}

func (c *Config) applyDefaults() {
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.PTT.BaseURL == "" {
		c.PTT.BaseURL = "https://pttweb.tw"
	}
	if c.PTT.MaxArticles == 0 {
		c.PTT.MaxArticles = 10
	}
	if c.PTT.Timeout == 0 {
		c.PTT.Timeout = 10
	}
	if c.YouTube.Region == "" {
		c.YouTube.Region = "TW"
	}
	if c.YouTube.MaxVideos == 0 {
		c.YouTube.MaxVideos = 7
	}
	if c.YouTube.MaxComments == 0 {
		c.YouTube.MaxComments = 50
	}
	if c.Archive.Dir == "" {
		c.Archive.Dir = "csv_backup"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30
	}
	if c.Limit.QPS == 0 {
		c.Limit.QPS = 1
	}
	if c.Limit.RPM == 0 {
		c.Limit.RPM = 30
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
