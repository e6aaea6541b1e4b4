package cli

import (
	"github.com/Hara602/scriptGuard/internal/analysis"
	"github.com/Hara602/scriptGuard/internal/channel"
	"github.com/Hara602/scriptGuard/internal/config"
	"github.com/Hara602/scriptGuard/internal/denylist"
	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/monitor"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"go.uber.org/zap"
)

// shell 组装 monitor、信号总线和控制通道，对应桌面应用的外壳
type shell struct {
	cfg    *config.Config
	bus    *event.Bus
	mon    *monitor.Monitor
	client *channel.Client
	store  *denylist.Store
}

func newShell(cfg *config.Config, opts monitor.Options) *shell {
	s := &shell{cfg: cfg, bus: event.NewBus()}

	var stored []string
	if cfg.Monitor.DenylistDB != "" {
		store, err := denylist.Open(cfg.Monitor.DenylistDB)
		if err != nil {
			// 数据库不可用时仍使用内置名单
			sysutil.Log.Warn("denylist store unavailable", zap.Error(err))
		} else {
			s.store = store
			if stored, err = store.Names(); err != nil {
				sysutil.Log.Warn("failed to read denylist store", zap.Error(err))
			}
		}
	}

	opts.Denylist = analysis.MergeDenylist(analysis.DefaultDenylist, cfg.Monitor.ExtraTools, stored)
	opts.Interval = cfg.Interval()
	s.mon = monitor.New(opts)
	s.mon.Register(s.bus)

	s.client = &channel.Client{Addr: cfg.Channel.Addr, Timeout: cfg.Timeout()}
	return s
}

// executeScript shell 暴露给界面的命令：返回成功字符串或错误字符串
func (s *shell) executeScript(script string) (string, error) {
	return s.client.SendScript(script)
}

func (s *shell) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}
