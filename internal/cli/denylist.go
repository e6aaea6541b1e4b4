package cli

import (
	"fmt"
	"strings"

	"github.com/Hara602/scriptGuard/internal/analysis"
	"github.com/Hara602/scriptGuard/internal/denylist"
	"github.com/spf13/cobra"
)

var denylistCmd = &cobra.Command{
	Use:   "denylist",
	Short: "Manage extra suspicious-tool names",
}

var denylistAddCmd = &cobra.Command{
	Use:   "add <name> [reason]",
	Short: "Add a tool name to the denylist store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *denylist.Store) error {
			reason := strings.Join(args[1:], " ")
			if err := s.Add(args[0], reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", args[0])
			return nil
		})
	},
}

var denylistRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a tool name from the denylist store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *denylist.Store) error {
			return s.Remove(args[0])
		})
	},
}

var denylistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and stored tool names",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *denylist.Store) error {
			out := cmd.OutOrStdout()
			for _, name := range analysis.DefaultDenylist {
				fmt.Fprintf(out, "%-20s built-in\n", name)
			}
			entries, err := s.Entries()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-20s %s %s\n", e.Name, e.CreatedAt, e.Reason)
			}
			return nil
		})
	},
}

func init() {
	denylistCmd.AddCommand(denylistAddCmd, denylistRemoveCmd, denylistListCmd)
	rootCmd.AddCommand(denylistCmd)
}

func withStore(fn func(s *denylist.Store) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.Monitor.DenylistDB == "" {
		return fmt.Errorf("monitor.denylist_db is not configured")
	}
	s, err := denylist.Open(cfg.Monitor.DenylistDB)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
