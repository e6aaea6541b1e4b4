package cli

import (
	"fmt"

	"github.com/Hara602/scriptGuard/internal/monitor"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the integrity detections once and report the result",
	Long: `Run debugger and suspicious-tool detection once without terminating the
process. Exits with status 1 when anything is detected.`,
	RunE: checkCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	sh := newShell(cfg, monitor.Options{})
	defer sh.close()

	res := sh.mon.RunDetection()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "debugger attached:    %v\n", res.Debugger)
	if res.Tool {
		fmt.Fprintf(out, "suspicious tool:      %s\n", res.ToolName)
	} else {
		fmt.Fprintf(out, "suspicious tool:      none\n")
	}

	if res.Detected() {
		return fmt.Errorf("integrity check failed: %s", res.Reason())
	}
	fmt.Fprintln(out, "environment clean")
	return nil
}
