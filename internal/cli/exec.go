package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Hara602/scriptGuard/internal/event"
	"github.com/Hara602/scriptGuard/internal/monitor"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec [file|-]",
	Short: "Send a script to the local executor",
	Long: `Raise an integrity check, then send the script over the loopback control
channel. The script is read from the given file, or from stdin when the
argument is "-" or omitted.

  scriptguard exec hello.lua
  echo 'print("hi")' | scriptguard exec -`,
	Args: cobra.MaximumNArgs(1),
	RunE: execCommand,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func readScript(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

func execCommand(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer sysutil.Log.Sync()

	script, err := readScript(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sh := newShell(cfg, monitor.Options{})
	defer sh.close()

	// 失陷时 check 会直接终止进程，不会走到发送
	sh.bus.Emit(event.CheckIntegrity, nil)

	res, err := sh.executeScript(script)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res)
	return nil
}
