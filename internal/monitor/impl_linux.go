package monitor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// procStatusProbe 使用 PR_SET_DUMPABLE 阻止非特权附加，
// 再读取 /proc/self/status 中的 TracerPid
type procStatusProbe struct {
	statusPath string
	denyAttach func() error
}

func NewDebuggerProbe() DebuggerProbe {
	return &procStatusProbe{
		statusPath: "/proc/self/status",
		denyAttach: func() error {
			return unix.Prctl(unix.PR_SET_DUMPABLE, 0, 0, 0, 0)
		},
	}
}

func (p *procStatusProbe) DebuggerAttached() bool {
	if p.denyAttach != nil {
		_ = p.denyAttach()
	}
	pid, err := tracerPid(p.statusPath)
	if err != nil {
		return false
	}
	return pid != 0
}

// tracerPid 解析 status 文件中的 TracerPid 字段
func tracerPid(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed TracerPid line: %q", line)
		}
		return strconv.Atoi(fields[1])
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("TracerPid not found in %s", path)
}
