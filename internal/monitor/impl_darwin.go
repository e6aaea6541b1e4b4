//go:build darwin

package monitor

import (
	"os"

	"golang.org/x/sys/unix"
)

// pTraced kinfo_proc.kp_proc.p_flag 中的 P_TRACED 位
const pTraced = 0x800

type darwinProbe struct{}

func NewDebuggerProbe() DebuggerProbe {
	return darwinProbe{}
}

func (darwinProbe) DebuggerAttached() bool {
	// PT_DENY_ATTACH 阻止之后的附加；已被跟踪时再次调用会失败
	_ = unix.PtraceDenyAttach()
	if err := unix.PtraceDenyAttach(); err != nil {
		return true
	}

	// 通过 sysctl 读取自身进程标志
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", os.Getpid())
	if err != nil {
		return false
	}
	return kp.Proc.P_flag&pTraced != 0
}
