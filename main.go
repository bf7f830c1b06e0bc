package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// -------------------- MAIN --------------------

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "allocation-wallet",
		Short: "Claim, allocate and reclaim reward allocations from the terminal",
		Long: `allocation-wallet talks to the allocation backend and the rewards contract
on the active network.

Environment:
  REWARDS_API_URL     backend base URL
  ETH_RPC_URL         endpoint of the active network
  REWARDS_SIGNER_KEY  hex private key used to sign transactions`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newModel(opts)
			if err != nil {
				return err
			}
			defer m.close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath(), "config file")
	flags.StringVar(&opts.backend, "backend", "", "backend base URL (overrides config and REWARDS_API_URL)")
	flags.BoolVar(&opts.logEnabled, "log", false, "show the log panel")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}
