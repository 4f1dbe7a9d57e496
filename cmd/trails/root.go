package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/trailnet/config"
)

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "trails",
		Short:        "Generate, convert and inspect batched trail networks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
			return config.Init(configPath)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (empty = defaults)")

	root.AddCommand(newGenCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newRouteCmd())
	return root
}
