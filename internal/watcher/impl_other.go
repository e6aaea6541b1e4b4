//go:build !linux

package watcher

import "github.com/Hara602/scriptGuard/internal/model"

// 其它平台没有 netlink，返回永不产生事件的通道
type noopWatcher struct {
	events chan model.DeviceEvent
	stop   chan struct{}
}

func newWatcher() DeviceWatcher {
	return &noopWatcher{events: make(chan model.DeviceEvent), stop: make(chan struct{})}
}

func (w *noopWatcher) Start() (<-chan model.DeviceEvent, error) {
	go func() {
		<-w.stop
		close(w.events)
	}()
	return w.events, nil
}

func (w *noopWatcher) Stop() { close(w.stop) }
