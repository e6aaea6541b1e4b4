package model

import "time"

// DetectionResult 一次完整检测的结果，每次轮询/信号都重新计算，不缓存
type DetectionResult struct {
	Debugger  bool   // 调试器已附加
	Tool      bool   // 可疑工具正在运行
	ToolName  string // 命中的黑名单名称
	TimeStamp time.Time
}

// Detected 任一检测为真即视为失陷 (fail-closed)
func (r DetectionResult) Detected() bool {
	return r.Debugger || r.Tool
}

// Reason 用于终止前的诊断输出
func (r DetectionResult) Reason() string {
	switch {
	case r.Debugger && r.Tool:
		return "debugger attached and suspicious tool running: " + r.ToolName
	case r.Debugger:
		return "debugger attached"
	case r.Tool:
		return "suspicious tool running: " + r.ToolName
	}
	return ""
}

// DeviceEvent 热插拔事件
type DeviceEvent struct {
	Action     string // "add", "remove"
	DevicePath string // e.g., /dev/sdb1
	Subsystem  string // e.g., usb, block
	TimeStamp  time.Time
}
