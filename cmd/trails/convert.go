package main

import (
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Validate a trail file and rewrite it in the format named by the output suffix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			s, err := openStore(cmd.Context(), args[0], capacity)
			if err != nil {
				return err
			}
			if err := s.Save(args[1]); err != nil {
				return err
			}
			prog.done("Converted " + args[0] + " to " + args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 0, "incidence slots per node and direction (0 = largest degree)")
	return cmd
}
