// Package graph draws the family tree implied by a parsed phrase, as Graphviz
// DOT or as a JSON node/link model.
package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/teranos/kin/relation"
)

// DefaultLabelWidth is the line width DOT labels are wrapped to.
const DefaultLabelWidth = 16

const (
	selfLabel   = "You"
	parentLabel = "'s parent"
	dotTemplate = "digraph relationgraph {\n" +
		"size=\"%s\";\n" +
		"%s" +
		"}\n"
	defaultSize = "10,10"
)

// nodeKey identifies a node. Named people have level 0. Intermediate
// ancestors are shared by both members of an ancestral couple, so they are
// keyed by couple; the common ancestors at the top are distinct per ancestor.
type nodeKey struct {
	label    string
	level    int
	couple   int
	ancestor int
}

type node struct {
	id    string
	label string
	level int
}

// RelationGraph accumulates relations between labelled people. It implements
// parser.EdgeRecorder. It is not safe for concurrent use.
type RelationGraph struct {
	labelWidth int
	size       string

	ids   map[nodeKey]string
	nodes []node
	edges []Link
	seen  map[string]bool
}

// Option configures a RelationGraph
type Option func(*RelationGraph)

// WithLabelWidth sets the DOT label wrap width. Non-positive disables wrapping.
func WithLabelWidth(width int) Option {
	return func(g *RelationGraph) { g.labelWidth = width }
}

// WithSize sets the DOT size attribute, e.g. "10,10".
func WithSize(size string) Option {
	return func(g *RelationGraph) {
		if size != "" {
			g.size = size
		}
	}
}

// New creates an empty RelationGraph.
func New(opts ...Option) *RelationGraph {
	g := &RelationGraph{
		labelWidth: DefaultLabelWidth,
		size:       defaultSize,
		ids:        make(map[nodeKey]string),
		seen:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddRelation draws the path from source and from target up to each of
// their common ancestors.
func (g *RelationGraph) AddRelation(source, target string, r relation.Relation) {
	g.person(source)
	g.person(target)

	for k, a := range r.Ancestors {
		couple := k / 2
		d1, d2 := a.DistanceFromFirst, a.DistanceFromSecond

		var top string
		switch {
		case d1 == 0:
			top = g.person(source)
		case d2 == 0:
			top = g.person(target)
		default:
			top = g.id(nodeKey{label: source + "\x00" + target, level: d1, couple: couple, ancestor: k},
				ancestorLabel(source, d1), d1)
		}

		g.climb(source, d1, couple, top)
		g.climb(target, d2, couple, top)
	}
}

// climb links label to its ancestors, level by level, ending at top.
func (g *RelationGraph) climb(label string, distance, couple int, top string) {
	child := g.person(label)
	for level := 1; level <= distance; level++ {
		parent := top
		if level < distance {
			parent = g.id(nodeKey{label: label, level: level, couple: couple, ancestor: -1},
				ancestorLabel(label, level), level)
		}
		g.edge(parent, child)
		child = parent
	}
}

func (g *RelationGraph) person(label string) string {
	return g.id(nodeKey{label: label, ancestor: -1}, label, 0)
}

func (g *RelationGraph) id(key nodeKey, label string, level int) string {
	if id, ok := g.ids[key]; ok {
		return id
	}
	id := nodeName(len(g.nodes))
	g.ids[key] = id
	g.nodes = append(g.nodes, node{id: id, label: label, level: level})
	return id
}

func (g *RelationGraph) edge(parent, child string) {
	key := parent + " -> " + child
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.edges = append(g.edges, Link{Source: parent, Target: child, Type: LinkTypeParentOf, Weight: defaultLinkWeight})
}

// ancestorLabel names the ancestor level generations above label.
func ancestorLabel(label string, level int) string {
	if level == 0 {
		return label
	}
	if label == selfLabel {
		return "Your parent" + strings.Repeat(parentLabel, level-1)
	}
	return label + strings.Repeat(parentLabel, level)
}

// Stats counts nodes and edges drawn so far.
func (g *RelationGraph) Stats() Stats {
	return Stats{TotalNodes: len(g.nodes), TotalEdges: len(g.edges)}
}

// DOT renders the graph in Graphviz DOT format.
func (g *RelationGraph) DOT() string {
	var sb strings.Builder
	for _, n := range g.nodes {
		label := n.label
		if g.labelWidth > 0 {
			label = WordWrap(label, g.labelWidth)
		}
		fmt.Fprintf(&sb, "%s [label=\"%s\"];\n", n.id, escapeDOT(label))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&sb, "%s -> %s\n", e.Source, e.Target)
	}
	return fmt.Sprintf(dotTemplate, g.size, sb.String())
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Graph returns the JSON visualisation model. config is copied into Meta.
func (g *RelationGraph) Graph(config map[string]string) *Graph {
	out := &Graph{
		Nodes: make([]Node, 0, len(g.nodes)),
		Links: append([]Link{}, g.edges...),
		Meta: Meta{
			GeneratedAt: time.Now(),
			Stats:       g.Stats(),
			Config:      make(map[string]string, len(config)),
		},
	}
	for k, v := range config {
		out.Meta.Config[k] = v
	}
	for _, n := range g.nodes {
		typ := NodeTypePerson
		if n.level > 0 {
			typ = NodeTypeAncestor
		}
		out.Nodes = append(out.Nodes, Node{
			ID:      n.id,
			Type:    typ,
			Label:   n.label,
			Visible: true,
			Group:   n.level,
		})
	}
	return out
}
