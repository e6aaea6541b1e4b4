package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".scriptguard"
	DefaultConfigFile = "config.yaml"
	DefaultDBFile     = "denylist.db"

	defaultAddr       = "127.0.0.1:5553"
	defaultTimeoutMS  = 3000
	defaultIntervalMS = 1000
)

type Config struct {
	Channel ChannelConfig `yaml:"channel"`
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`

	// Path 实际读取的配置文件，文件不存在时仍然记录
	Path      string `yaml:"-"`
	ConfigDir string `yaml:"-"`
}

// ChannelConfig 本地控制通道
type ChannelConfig struct {
	Addr      string `yaml:"addr"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// MonitorConfig 完整性监控
type MonitorConfig struct {
	IntervalMS int      `yaml:"interval_ms"`
	DenylistDB string   `yaml:"denylist_db"`
	ExtraTools []string `yaml:"extra_tools"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Timeout 连接/读/写共用超时
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Channel.TimeoutMS) * time.Millisecond
}

// Interval 后台轮询周期
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalMS) * time.Millisecond
}

// Default 与硬编码行为一致的默认配置
func Default(configDir string) *Config {
	return &Config{
		Channel: ChannelConfig{Addr: defaultAddr, TimeoutMS: defaultTimeoutMS},
		Monitor: MonitorConfig{
			IntervalMS: defaultIntervalMS,
			DenylistDB: filepath.Join(configDir, DefaultDBFile),
		},
		Log:       LogConfig{Level: "info"},
		ConfigDir: configDir,
	}
}

// Load 读取 YAML 配置，再用 .env / 环境变量覆盖。
// path 为空时使用 ~/.scriptguard/config.yaml，文件不存在则使用默认值。
func Load(path string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := Default(configDir)
	if path == "" {
		path = filepath.Join(configDir, DefaultConfigFile)
	}
	cfg.Path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	// .env 不存在时只依赖环境变量
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Channel.Addr = getEnv("SCRIPTGUARD_ADDR", cfg.Channel.Addr)
	cfg.Monitor.DenylistDB = getEnv("SCRIPTGUARD_DENYLIST_DB", cfg.Monitor.DenylistDB)
	cfg.Log.Level = getEnv("SCRIPTGUARD_LOG_LEVEL", cfg.Log.Level)

	if v := getEnv("SCRIPTGUARD_TIMEOUT_MS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCRIPTGUARD_TIMEOUT_MS: %w", err)
		}
		cfg.Channel.TimeoutMS = n
	}
	if v := getEnv("SCRIPTGUARD_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCRIPTGUARD_INTERVAL: %w", err)
		}
		cfg.Monitor.IntervalMS = int(d / time.Millisecond)
	}
	if v := getEnv("SCRIPTGUARD_EXTRA_TOOLS", ""); v != "" {
		cfg.Monitor.ExtraTools = append(cfg.Monitor.ExtraTools, strings.Split(v, ",")...)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Channel.Addr == "" {
		return fmt.Errorf("channel.addr must not be empty")
	}
	if c.Channel.TimeoutMS <= 0 {
		return fmt.Errorf("channel.timeout_ms must be positive, got %d", c.Channel.TimeoutMS)
	}
	if c.Monitor.IntervalMS <= 0 {
		return fmt.Errorf("monitor.interval_ms must be positive, got %d", c.Monitor.IntervalMS)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
