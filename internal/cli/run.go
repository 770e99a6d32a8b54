package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flipgraph/flipgraph/pkg/replay"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	graph          string // graph JSON file path
	assignmentAttr string // node attribute holding the initial part
	assignmentPath string // JSON node→part mapping file
	steps          string // steps JSON file path
	tally          string // node attributes to tally (comma-separated)
	formats        string // output formats (comma-separated)
	output         string // output file base path
	config         string // TOML config file path
	noCache        bool   // disable the replay cache
	refresh        bool   // recompute even on cache hit
	detailed       bool   // include node metadata in rendered labels
	engine         string // graphviz layout engine
}

// runCommand creates the run command that replays a chain of flips and
// reports the final statistics.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a chain of node flips and report final statistics",
		Long: `Replay a sequence of node-flip steps over a partitioned graph.

The graph is loaded from a JSON file and the initial assignment comes either
from a node attribute or from a separate mapping file. Each step flips one or
more nodes to new parts; statistics (part sizes, cut edges, tallies) are
carried forward incrementally.

Examples:
  flipgraph run --graph iowa.json --assignment-attr district --steps chain.json
  flipgraph run --graph grid.json --assignment init.json --steps chain.json --tally population
  flipgraph run --config run.toml --format svg,json -o out/final`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.graph, "graph", "", "graph JSON file")
	cmd.Flags().StringVar(&opts.assignmentAttr, "assignment-attr", "", "node attribute holding the initial part")
	cmd.Flags().StringVar(&opts.assignmentPath, "assignment", "", "JSON file mapping node IDs to parts")
	cmd.Flags().StringVar(&opts.steps, "steps", "", "steps JSON file (array of node→part flip maps)")
	cmd.Flags().StringVar(&opts.tally, "tally", "", "node attributes to tally (comma-separated)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), svg, png, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file base path (stdout for json if empty)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file with run options")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the replay cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in rendered labels")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "graphviz layout engine: neato (default), dot, fdp, circo")

	return cmd
}

// runReplay executes the replay pipeline and prints the results.
func (c *CLI) runReplay(cmd *cobra.Command, opts *runOpts) error {
	replayOpts := replay.Options{
		GraphPath:      opts.graph,
		AssignmentAttr: opts.assignmentAttr,
		AssignmentPath: opts.assignmentPath,
		StepsPath:      opts.steps,
		TallyAttrs:     parseList(opts.tally),
		Refresh:        opts.refresh,
		Formats:        parseFormats(opts.formats),
		Engine:         opts.engine,
		Detailed:       opts.detailed,
	}

	if opts.config != "" {
		cfg, err := LoadRunConfig(opts.config)
		if err != nil {
			return err
		}
		cfg.ApplyTo(&replayOpts)
	}

	if opts.noCache && opts.refresh {
		printWarning("--refresh has no effect with --no-cache")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx := withLogger(cmd.Context(), c.Logger)
	stage := newProgress(c.Logger, "replay")
	result, err := runner.Execute(ctx, replayOpts)
	if err != nil {
		return err
	}
	stage.done()

	printSuccess("Replayed %d steps", result.Stats.StepCount)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.StepCount, result.CacheInfo.StatsHit)
	printNewline()

	for _, name := range slices.Sorted(maps.Keys(result.Values)) {
		printKeyValue(name, compactJSON(result.Values[name]))
	}

	if err := writeArtifacts(result.Artifacts, opts.output, replayOpts.GraphPath); err != nil {
		return err
	}

	if len(replayOpts.Formats) == 1 && replayOpts.Formats[0] == replay.FormatJSON {
		printNewline()
		printNextStep("Render the final partition", fmt.Sprintf("flipgraph run --graph %s --format svg", replayOpts.GraphPath))
	}

	return nil
}

// writeArtifacts writes rendered outputs to files derived from the base path.
// JSON goes to stdout when no output path is given.
func writeArtifacts(artifacts map[string][]byte, output, input string) error {
	if len(artifacts) == 0 {
		return nil
	}

	for _, format := range slices.Sorted(maps.Keys(artifacts)) {
		data := artifacts[format]
		if format == replay.FormatJSON && output == "" {
			printNewline()
			fmt.Println(string(data))
			continue
		}
		path := artifactPath(output, input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath derives the output path for a format from the output flag or
// the input file name.
func artifactPath(output, input, format string) string {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if ext := filepath.Ext(base); replay.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + format
}

// compactJSON flattens an indented JSON value onto one line for display.
func compactJSON(data []byte) string {
	fields := strings.Fields(string(data))
	return strings.Join(fields, " ")
}
