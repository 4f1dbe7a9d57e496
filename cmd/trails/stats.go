package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/trailnet/trails"
)

func newStatsCmd() *cobra.Command {
	var (
		capacity int
		csv      bool
	)

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Print per-environment statistics of a trail file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), args[0], capacity)
			if err != nil {
				return err
			}
			stats := s.AllStats()
			if csv {
				return gocsv.Marshal(stats, cmd.OutOrStdout())
			}
			return writeStatsTable(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 0, "incidence slots per node and direction (0 = largest degree)")
	cmd.Flags().BoolVar(&csv, "csv", false, "write CSV instead of a table")
	return cmd
}

func writeStatsTable(w io.Writer, stats []trails.EnvStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENV\tNODES\tEDGES\tCURVED\tMAX OUT\tMAX IN\tLENGTH\tCOMPONENTS\tLARGEST\tMISMATCHES")
	for _, st := range stats {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%.3f\t%d\t%d\t%d\n",
			st.Env, st.Nodes, st.Edges, st.Curved, st.MaxOutDegree, st.MaxInDegree,
			st.TotalLength, st.Components, st.LargestComponent, st.Mismatches)
	}
	return tw.Flush()
}
