//go:build !windows

package analysis

import (
	"fmt"
	"os/exec"
)

// PSLister 通过外部 ps 命令获取进程列表
type PSLister struct{}

// ListProcesses 返回 `ps aux` 的原始输出
func (PSLister) ListProcesses() (string, error) {
	out, err := exec.Command("ps", "aux").Output()
	if err != nil {
		return "", fmt.Errorf("ps aux failed: %w", err)
	}
	return string(out), nil
}
