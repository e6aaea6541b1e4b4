package cli

import (
	"fmt"

	"github.com/Hara602/scriptGuard/internal/config"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "scriptguard",
	Short: "scriptGuard - integrity shell for the local script executor",
	Long: `scriptGuard hands scripts to the co-located executor over the loopback
control channel and keeps an integrity monitor running that terminates the
process as soon as a debugger or reverse-engineering tool is detected.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (default: ~/.scriptguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}

// setup 读取配置并初始化日志，所有子命令共用
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	sysutil.InitLogger(cfg.Log.Level)
	return cfg, nil
}
