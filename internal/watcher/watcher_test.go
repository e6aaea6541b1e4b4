package watcher

import (
	"testing"

	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/model"
)

func TestForward(t *testing.T) {
	bus := event.NewBus()
	var got []model.DeviceEvent
	bus.Listen(event.CheckIntegrity, func(p any) {
		got = append(got, p.(model.DeviceEvent))
	})

	events := make(chan model.DeviceEvent, 3)
	events <- model.DeviceEvent{Action: "add", DevicePath: "/dev/bus/usb/001/004"}
	events <- model.DeviceEvent{Action: "remove", DevicePath: "/dev/bus/usb/001/004"}
	events <- model.DeviceEvent{Action: "add", DevicePath: "/dev/bus/usb/001/005"}
	close(events)

	Forward(events, bus)

	if len(got) != 2 {
		t.Fatalf("emitted %d signals, want 2", len(got))
	}
	if got[1].DevicePath != "/dev/bus/usb/001/005" {
		t.Errorf("second signal payload = %+v", got[1])
	}
}
