//go:build windows

package cli

import "os"

// Windows 没有 SIGUSR1，只能通过热插拔或 exec 触发检查
func checkSignals() []os.Signal { return nil }
