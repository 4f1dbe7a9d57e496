package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/trailnet/trails"
)

type dotOpts struct {
	env      int
	capacity int
	output   string
	svg      bool
	pinned   bool
	lengths  bool
}

func newDotCmd() *cobra.Command {
	opts := dotOpts{pinned: true}

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Export one environment as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, opts, args[0])
		},
	}
	cmd.Flags().IntVarP(&opts.env, "env", "e", 0, "environment to export")
	cmd.Flags().IntVar(&opts.capacity, "capacity", 0, "incidence slots per node and direction (0 = largest degree)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render SVG with graphviz")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", opts.pinned, "pin nodes to their world positions")
	cmd.Flags().BoolVar(&opts.lengths, "lengths", false, "label edges with their length")
	return cmd
}

func runDot(cmd *cobra.Command, opts dotOpts, path string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx, path, opts.capacity)
	if err != nil {
		return err
	}
	if err := checkEnv(s, opts.env); err != nil {
		return err
	}

	out := []byte(s.ToDOT(opts.env, trails.DOTOptions{Pinned: opts.pinned, Lengths: opts.lengths}))
	if opts.svg {
		prog := newProgress(loggerFromContext(ctx))
		if out, err = trails.RenderSVG(ctx, string(out), opts.pinned); err != nil {
			return err
		}
		prog.done("Rendered SVG")
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}
	loggerFromContext(ctx).Info("Wrote " + opts.output)
	return nil
}

func checkEnv(s *trails.Store, env int) error {
	if n := s.Dims().Envs; env < 0 || env >= n {
		return &trails.Error{Kind: trails.ErrIndex, Env: -1, Entity: "environment", Index: env, Msg: fmt.Sprintf("outside [0,%d)", n)}
	}
	return nil
}

