package sysutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var Log *zap.Logger
var LogSugar *zap.SugaredLogger

func init() {
	// 未调用 InitLogger 时 (例如单元测试) 保证全局 logger 可用
	Log = zap.NewNop()
	LogSugar = Log.Sugar()
}

// InitLogger 初始化控制台日志, level 为空时使用 debug
func InitLogger(level string) {
	lvl := zap.DebugLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder // 格式化时间输出
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	// 只有终端才输出颜色，重定向到文件时保持纯文本
	if term.IsTerminal(int(os.Stdout.Fd())) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.AddSync(os.Stdout),
		lvl,
	)
	Log = zap.New(core, zap.AddCaller())
	LogSugar = Log.Sugar()
}
