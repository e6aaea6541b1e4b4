// Package event is the named-signal surface the shell raises and the
// integrity monitor listens on.
package event

import "sync"

// CheckIntegrity 由 shell 触发的完整性检查信号
const CheckIntegrity = "check_integrity"

// Handler 信号处理函数, payload 可能为 nil
type Handler func(payload any)

// Bus 按名称分发信号，处理函数在触发方的 goroutine 中同步执行
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Listen 注册处理函数
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Emit 触发信号，返回被调用的处理函数数量
func (b *Bus) Emit(name string, payload any) int {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
	return len(hs)
}
