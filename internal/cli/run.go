package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/monitor"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"github.com/Hara602/scriptGuard/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var noHotplug bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the integrity monitor in the foreground",
	Long: `Start the background integrity loop and listen for check_integrity
signals. A signal is raised on SIGUSR1 and whenever a USB device is attached
(Linux). Any positive detection terminates the process with exit status 1.`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&noHotplug, "no-hotplug", false, "Do not raise integrity checks on device hot-plug")
	rootCmd.AddCommand(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer sysutil.Log.Sync()

	sh := newShell(cfg, monitor.Options{})
	defer sh.close()

	sysutil.Log.Info("🛡️ scriptGuard monitor starting",
		zap.Duration("interval", cfg.Interval()),
		zap.Int("denylist", len(sh.mon.Denylist())),
	)
	sh.mon.Start()
	defer sh.mon.Stop()

	if !noHotplug {
		devWatcher := watcher.New()
		devEvents, err := devWatcher.Start()
		if err != nil {
			sysutil.Log.Warn("hot-plug watcher unavailable", zap.Error(err))
		} else {
			defer devWatcher.Stop()
			go watcher.Forward(devEvents, sh.bus)
		}
	}

	checkCh := make(chan os.Signal, 1)
	if sigs := checkSignals(); len(sigs) > 0 {
		signal.Notify(checkCh, sigs...)
	}

	// 捕获操作系统信号，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-checkCh:
			sysutil.Log.Info("integrity check requested")
			sh.bus.Emit(event.CheckIntegrity, nil)
		case <-sigCh:
			sysutil.Log.Info("Shutting down...")
			return nil
		}
	}
}
