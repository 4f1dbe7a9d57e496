package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRouteCmd() *cobra.Command {
	var env, capacity int

	cmd := &cobra.Command{
		Use:   "route [file] [from] [to]",
		Short: "Print the shortest trail route between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid source node %q: %w", args[1], err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid destination node %q: %w", args[2], err)
			}

			s, err := openStore(cmd.Context(), args[0], capacity)
			if err != nil {
				return err
			}
			if err := checkEnv(s, env); err != nil {
				return err
			}
			r, err := s.Router(env).Shortest(from, to)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "length %.4f over %d edges\n", r.Length, len(r.Edges))
			fmt.Fprintf(w, "nodes %v\n", r.Nodes)
			fmt.Fprintf(w, "edges %v\n", r.Edges)
			return nil
		},
	}
	cmd.Flags().IntVarP(&env, "env", "e", 0, "environment to search")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "incidence slots per node and direction (0 = largest degree)")
	return cmd
}
