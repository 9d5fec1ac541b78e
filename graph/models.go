package graph

import (
	"time"
)

// Graph is the family tree behind a phrase, shaped for force-directed
// rendering in a browser (D3 reads nodes/links/value).
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Meta  Meta   `json:"meta"`
}

// Node is a person in the tree
type Node struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`            // NodeTypePerson or NodeTypeAncestor
	Label    string                 `json:"label"`           // Display label, unwrapped
	Visible  bool                   `json:"visible"`         // Backend controls visibility
	Group    int                    `json:"group,omitempty"` // Generations above the named person
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Link points from a parent to a child
type Link struct {
	Source string  `json:"source"` // Node ID
	Target string  `json:"target"` // Node ID
	Type   string  `json:"type"`
	Weight float64 `json:"value"` // D3 uses "value"
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Stats       Stats             `json:"stats"`
	Config      map[string]string `json:"config"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
}

const (
	// NodeTypePerson marks a person named by the phrase
	NodeTypePerson = "person"
	// NodeTypeAncestor marks an implied ancestor
	NodeTypeAncestor = "ancestor"
	// LinkTypeParentOf is the only link type
	LinkTypeParentOf = "parent_of"

	defaultLinkWeight = 1.0
)
