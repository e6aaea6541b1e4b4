//go:build !linux && !darwin

package sysutil

// ProtectMemory 在不支持 mlockall 的平台上为空操作
func ProtectMemory() error { return nil }
