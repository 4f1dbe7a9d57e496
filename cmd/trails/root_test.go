package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/trailnet/trails"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// genGrid writes a 3x2 grid with unit spacing in two environments.
func genGrid(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := run(t, "gen", path, "--envs", "2", "--cols", "3", "--rows", "2", "--spacing", "1", "--margin", "0.5", "--scale", "4"); err != nil {
		t.Fatalf("gen: %v", err)
	}
	return path
}

func TestGenAndStats(t *testing.T) {
	path := genGrid(t, "grid.yaml")

	out, err := run(t, "stats", path, "--csv")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats --csv printed %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "0,6,14,") || !strings.HasPrefix(lines[2], "1,6,14,") {
		t.Errorf("unexpected rows:\n%s", out)
	}

	out, err = run(t, "stats", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.HasPrefix(out, "ENV") {
		t.Errorf("table output = %q", out)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	src := genGrid(t, "grid.yaml")
	dst := filepath.Join(t.TempDir(), "grid.json")
	if _, err := run(t, "convert", src, dst); err != nil {
		t.Fatalf("convert: %v", err)
	}

	a, err := openStore(context.Background(), src, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := openStore(context.Background(), dst, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.Dims() != b.Dims() || a.Dims().MaxEdgesPerNode != 3 {
		t.Fatalf("dims %+v vs %+v", a.Dims(), b.Dims())
	}
	for env := 0; env < 2; env++ {
		ea, eb := a.Edges(env), b.Edges(env)
		for k := range ea {
			if ea[k] != eb[k] {
				t.Fatalf("env %d edge %d differs: %+v vs %+v", env, k, ea[k], eb[k])
			}
		}
	}
}

func TestConvertRejectsUnknownSuffix(t *testing.T) {
	src := genGrid(t, "grid.json")
	_, err := run(t, "convert", src, filepath.Join(t.TempDir(), "grid.txt"))
	if !errors.Is(err, trails.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestRoute(t *testing.T) {
	path := genGrid(t, "grid.json")

	out, err := run(t, "route", path, "0", "5", "--env", "1")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !strings.HasPrefix(out, "length 3.0000 over 3 edges") {
		t.Errorf("route output = %q", out)
	}

	if _, err := run(t, "route", path, "0", "9"); !errors.Is(err, trails.ErrIndex) {
		t.Errorf("expected ErrIndex for missing node, got %v", err)
	}
	if _, err := run(t, "route", path, "0", "1", "--env", "2"); !errors.Is(err, trails.ErrIndex) {
		t.Errorf("expected ErrIndex for missing env, got %v", err)
	}
	if _, err := run(t, "route", path, "zero", "1"); err == nil {
		t.Error("expected error for non-numeric node")
	}
}

func TestDot(t *testing.T) {
	path := genGrid(t, "grid.yaml")

	out, err := run(t, "dot", path, "--lengths")
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	if !strings.HasPrefix(out, "digraph trails {") || strings.Count(out, "->") != 14 {
		t.Errorf("dot output:\n%s", out)
	}

	svg := filepath.Join(t.TempDir(), "grid.svg")
	if _, err := run(t, "dot", path, "--svg", "-o", svg); err != nil {
		t.Fatalf("dot --svg: %v", err)
	}
}
