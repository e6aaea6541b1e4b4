// Package monitor runs the integrity checks: a perpetual background loop
// and an on-demand check bound to the check_integrity signal. A positive
// detection terminates the process through the injected FatalAction.
package monitor

import (
	"sync"
	"time"

	"github.com/Hara602/scriptGuard/internal/analysis"
	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/model"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"go.uber.org/zap"
)

// DefaultInterval 后台轮询周期
const DefaultInterval = time.Second

// DebuggerProbe 平台相关的调试器检测
type DebuggerProbe interface {
	DebuggerAttached() bool
}

// ProcessLister 调用外部进程列表工具
type ProcessLister interface {
	ListProcesses() (string, error)
}

// FatalAction 检测为阳性后的处理，生产环境直接退出进程
type FatalAction interface {
	Terminate(reason string)
}

// AlwaysDetected 没有 trace-attach 原语的平台使用的探针，恒报告已附加。
// 这会让完整性检查在该平台上总是终止进程。
type AlwaysDetected struct{}

func (AlwaysDetected) DebuggerAttached() bool { return true }

// Options 依赖注入，零值字段使用平台默认实现
type Options struct {
	Probe    DebuggerProbe
	Lister   ProcessLister
	Fatal    FatalAction
	Protect  func() error
	Denylist []string
	Interval time.Duration
	Logger   *zap.Logger
}

type Monitor struct {
	probe    DebuggerProbe
	lister   ProcessLister
	fatal    FatalAction
	protect  func() error
	denylist []string
	interval time.Duration
	log      *zap.Logger

	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	lockWarn  sync.Once
}

func New(opts Options) *Monitor {
	m := &Monitor{
		probe:    opts.Probe,
		lister:   opts.Lister,
		fatal:    opts.Fatal,
		protect:  opts.Protect,
		denylist: opts.Denylist,
		interval: opts.Interval,
		log:      opts.Logger,
		stop:     make(chan struct{}),
	}
	if m.probe == nil {
		m.probe = NewDebuggerProbe()
	}
	if m.lister == nil {
		m.lister = analysis.PSLister{}
	}
	if m.fatal == nil {
		m.fatal = ExitAction{Code: 1}
	}
	if m.protect == nil {
		m.protect = sysutil.ProtectMemory
	}
	if m.denylist == nil {
		m.denylist = analysis.DefaultDenylist
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.log == nil {
		m.log = sysutil.Log
	}
	return m
}

// Denylist returns the tool names the monitor matches against.
func (m *Monitor) Denylist() []string { return m.denylist }

// RunDetection 执行两项检测，后台循环和信号检查共用
func (m *Monitor) RunDetection() model.DetectionResult {
	res := model.DetectionResult{TimeStamp: time.Now()}
	res.Debugger = m.probe.DebuggerAttached()
	res.ToolName, res.Tool = m.suspiciousTool()
	return res
}

// suspiciousTool 列表获取失败视为未检测到
func (m *Monitor) suspiciousTool() (string, bool) {
	listing, err := m.lister.ListProcesses()
	if err != nil {
		m.log.Debug("process listing failed", zap.Error(err))
		return "", false
	}
	return analysis.MatchDenylist(listing, m.denylist)
}

// react 阳性时直接交给 FatalAction，没有中间状态
func (m *Monitor) react(res model.DetectionResult) {
	if !res.Detected() {
		return
	}
	m.fatal.Terminate(res.Reason())
}

// Start 启动后台轮询 goroutine，重复调用无效
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go m.loop()
	})
}

// Stop 结束后台轮询，可多次调用
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *Monitor) loop() {
	for {
		if err := m.protect(); err != nil {
			m.lockWarn.Do(func() {
				m.log.Warn("memory lock unavailable", zap.Error(err))
			})
		}
		m.react(m.RunDetection())

		select {
		case <-m.stop:
			return
		case <-time.After(m.interval):
		}
	}
}

// CheckNow 信号触发的同步检查，不锁内存。
// 会在调用方 goroutine 上阻塞到外部进程列表命令返回。
func (m *Monitor) CheckNow() model.DetectionResult {
	res := m.RunDetection()
	m.react(res)
	return res
}

// Register 把 CheckNow 绑定到 check_integrity 信号
func (m *Monitor) Register(bus *event.Bus) {
	bus.Listen(event.CheckIntegrity, func(any) {
		m.CheckNow()
	})
}
