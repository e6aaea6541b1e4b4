package monitor

import (
	"os"

	"github.com/Hara602/scriptGuard/internal/sysutil"
	"go.uber.org/zap"
)

// ExitAction 输出诊断信息、刷新缓冲后立即退出，不做任何清理
type ExitAction struct {
	Code int
}

func (a ExitAction) Terminate(reason string) {
	code := a.Code
	if code == 0 {
		code = 1
	}
	sysutil.Log.Error("🚨 Integrity violation, terminating", zap.String("reason", reason))
	_ = sysutil.Log.Sync()
	_ = os.Stdout.Sync()
	os.Exit(code)
}
