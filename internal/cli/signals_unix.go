//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// checkSignals 触发 check_integrity 的系统信号
func checkSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1}
}
