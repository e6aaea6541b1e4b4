// Package watcher turns device hot-plug activity into integrity checks.
package watcher

import (
	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/model"
)

// DeviceWatcher 定义接口
type DeviceWatcher interface {
	Start() (<-chan model.DeviceEvent, error)
	Stop()
}

func New() DeviceWatcher {
	return newWatcher()
}

// Forward 把新设备接入事件转成 check_integrity 信号，channel 关闭后返回
func Forward(events <-chan model.DeviceEvent, bus *event.Bus) {
	for dev := range events {
		if ShouldCheck(dev) {
			bus.Emit(event.CheckIntegrity, dev)
		}
	}
}

// ShouldCheck 只有设备接入才需要重新检查
func ShouldCheck(dev model.DeviceEvent) bool {
	return dev.Action == "add"
}
