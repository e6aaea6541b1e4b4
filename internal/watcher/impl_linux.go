package watcher

import (
	"strings"
	"time"

	"github.com/Hara602/scriptGuard/internal/model"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"
)

type linuxWatcher struct {
	events chan model.DeviceEvent
	stop   chan struct{}
}

func newWatcher() DeviceWatcher {
	return &linuxWatcher{
		events: make(chan model.DeviceEvent, 10),
		stop:   make(chan struct{}),
	}
}

func (w *linuxWatcher) Start() (<-chan model.DeviceEvent, error) {
	// 监听 UDEV 事件,连接 NETLINK_KOBJECT_UEVENT
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}
	queue := make(chan netlink.UEvent)
	errChan := make(chan error)

	quit := conn.Monitor(queue, errChan, nil)

	go func() {
		// 确保退出时关闭连接和事件通道
		defer conn.Close()
		defer close(w.events)

		for {
			select {
			case <-w.stop:
				close(quit)
				return

			case err := <-errChan:
				// 忽略底层网络错误，继续监听
				sysutil.Log.Debug("udev monitor error", zap.Error(err))

			case uevent := <-queue:
				if dev, ok := toDeviceEvent(uevent); ok {
					select {
					case w.events <- dev:
					case <-w.stop:
						close(quit)
						return
					}
				}
			}
		}
	}()
	return w.events, nil
}

func (w *linuxWatcher) Stop() {
	close(w.stop)
}

// toDeviceEvent 只关心 usb 设备的插拔
func toDeviceEvent(uevent netlink.UEvent) (model.DeviceEvent, bool) {
	action := string(uevent.Action)
	if action != "add" && action != "remove" {
		return model.DeviceEvent{}, false
	}
	subsystem := uevent.Env["SUBSYSTEM"]
	if subsystem != "usb" || uevent.Env["DEVTYPE"] != "usb_device" {
		return model.DeviceEvent{}, false
	}

	devName := uevent.Env["DEVNAME"]
	if devName != "" && !strings.HasPrefix(devName, "/dev") {
		devName = "/dev/" + devName
	}
	return model.DeviceEvent{
		Action:     action,
		DevicePath: devName,
		Subsystem:  subsystem,
		TimeStamp:  time.Now(),
	}, true
}
