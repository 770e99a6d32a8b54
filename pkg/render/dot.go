package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/flipgraph/flipgraph/pkg/partition"
)

// Options configures partition rendering.
type Options struct {
	// Detailed includes node metadata in labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Engine selects the Graphviz layout engine. Defaults to "neato",
	// which suits undirected graphs.
	Engine string
}

// palette holds the fill colors assigned to parts, cycled in sorted part
// order so the same partition always renders the same way.
var palette = []string{
	"#a6cee3", "#b2df8a", "#fb9a99", "#fdbf6f",
	"#cab2d6", "#ffff99", "#1f78b4", "#33a02c",
	"#e31a1c", "#ff7f00", "#6a3d9a", "#b15928",
}

// ToDOT converts a partition to Graphviz DOT format. Nodes are filled with
// their part's color and edges crossing parts are drawn bold and red, so the
// district boundaries stand out. The resulting DOT string can be rendered
// with [RenderSVG] or [RenderPNG].
func ToDOT(p *partition.Partition, opts Options) (string, error) {
	engine := opts.Engine
	if engine == "" {
		engine = "neato"
	}

	colors := make(map[string]string, p.Len())
	for i, part := range p.Parts() {
		colors[part] = palette[i%len(palette)]
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14];\n")
	buf.WriteString("\n")

	for _, id := range p.Graph().NodeIDs() {
		part, err := p.PartOf(id)
		if err != nil {
			return "", err
		}
		n, _ := p.Graph().Node(id)
		label := fmtLabel(id, n.Meta, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", id, label, colors[part])
	}

	buf.WriteString("\n")
	for _, e := range p.Graph().Edges() {
		crossing, err := p.CrossesParts(e)
		if err != nil {
			return "", err
		}
		if crossing {
			fmt.Fprintf(&buf, "  %q -- %q [color=\"#e31a1c\", penwidth=2];\n", e.U, e.V)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(id string, meta map[string]any, detailed bool) string {
	if !detailed || len(meta) == 0 {
		return id
	}

	parts := []string{id}
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, meta[k]))
	}
	return strings.Join(parts, "\n")
}
