//go:build linux || darwin

package sysutil

import "golang.org/x/sys/unix"

// ProtectMemory 锁定当前及以后分配的内存页，防止被换出到磁盘
func ProtectMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
