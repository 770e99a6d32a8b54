package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flipgraph/flipgraph/pkg/replay"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunConfig(t *testing.T) {
	path := writeConfig(t, `
graph = "iowa.json"
assignment_attr = "district"
steps = "chain.json"
tally = ["population", "area"]
formats = ["svg", "json"]
engine = "fdp"
detailed = true
`)

	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig() error: %v", err)
	}

	if cfg.Graph != "iowa.json" {
		t.Errorf("Graph = %q, want %q", cfg.Graph, "iowa.json")
	}
	if cfg.AssignmentAttr != "district" {
		t.Errorf("AssignmentAttr = %q, want %q", cfg.AssignmentAttr, "district")
	}
	if cfg.Steps != "chain.json" {
		t.Errorf("Steps = %q, want %q", cfg.Steps, "chain.json")
	}
	if len(cfg.Tally) != 2 || cfg.Tally[0] != "population" {
		t.Errorf("Tally = %v, want [population area]", cfg.Tally)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg json]", cfg.Formats)
	}
	if cfg.Engine != "fdp" {
		t.Errorf("Engine = %q, want %q", cfg.Engine, "fdp")
	}
	if !cfg.Detailed {
		t.Error("Detailed should be true")
	}
}

func TestLoadRunConfigErrors(t *testing.T) {
	if _, err := LoadRunConfig("/nonexistent/run.toml"); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, `graph = [not valid toml`)
	if _, err := LoadRunConfig(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyToFillsUnsetFields(t *testing.T) {
	cfg := &RunConfig{
		Graph:          "iowa.json",
		AssignmentAttr: "district",
		Steps:          "chain.json",
		Tally:          []string{"population"},
		Engine:         "fdp",
	}

	var opts replay.Options
	cfg.ApplyTo(&opts)

	if opts.GraphPath != "iowa.json" {
		t.Errorf("GraphPath = %q, want %q", opts.GraphPath, "iowa.json")
	}
	if opts.AssignmentAttr != "district" {
		t.Errorf("AssignmentAttr = %q, want %q", opts.AssignmentAttr, "district")
	}
	if opts.StepsPath != "chain.json" {
		t.Errorf("StepsPath = %q, want %q", opts.StepsPath, "chain.json")
	}
	if len(opts.TallyAttrs) != 1 || opts.TallyAttrs[0] != "population" {
		t.Errorf("TallyAttrs = %v, want [population]", opts.TallyAttrs)
	}
	if opts.Engine != "fdp" {
		t.Errorf("Engine = %q, want %q", opts.Engine, "fdp")
	}
}

func TestApplyToFlagsWin(t *testing.T) {
	cfg := &RunConfig{
		Graph:  "config.json",
		Steps:  "config-steps.json",
		Engine: "fdp",
		Tally:  []string{"area"},
	}

	opts := replay.Options{
		GraphPath:  "flag.json",
		TallyAttrs: []string{"population"},
	}
	cfg.ApplyTo(&opts)

	if opts.GraphPath != "flag.json" {
		t.Errorf("GraphPath = %q, flag value should win", opts.GraphPath)
	}
	if len(opts.TallyAttrs) != 1 || opts.TallyAttrs[0] != "population" {
		t.Errorf("TallyAttrs = %v, flag value should win", opts.TallyAttrs)
	}
	if opts.StepsPath != "config-steps.json" {
		t.Errorf("StepsPath = %q, unset flag should take config value", opts.StepsPath)
	}
	if opts.Engine != "fdp" {
		t.Errorf("Engine = %q, unset flag should take config value", opts.Engine)
	}
}
