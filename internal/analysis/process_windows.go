//go:build windows

package analysis

import (
	"fmt"
	"os/exec"
)

// PSLister 在 Windows 上使用 tasklist
type PSLister struct{}

// ListProcesses 返回 tasklist 的原始输出
func (PSLister) ListProcesses() (string, error) {
	out, err := exec.Command("tasklist").Output()
	if err != nil {
		return "", fmt.Errorf("tasklist failed: %w", err)
	}
	return string(out), nil
}
