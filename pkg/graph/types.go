package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds. The set is open-ended on the wire (a backend may introduce new
// entity kinds), but styling resolves every kind through a closed lookup with
// a default category, so unknown kinds degrade gracefully.
const (
	NodeKindVerse      = "verse"
	NodeKindMention    = "mention"
	NodeKindCommentary = "commentary"
)

// Edge kinds. Unknown kinds are carried through and styled as relationship
// edges; the visibility filter partitions on exactly these values.
const (
	EdgeKindMention       = "mention"
	EdgeKindCommentary    = "commentary"
	EdgeKindContradiction = "contradiction"
	EdgeKindHarmony       = "harmony"
)

// Mention-node data keys. The Data map on a node is kind-specific and opaque
// to layout; these keys are only interpreted when building deep links.
const (
	DataDocumentID = "document_id"
	DataPassageID  = "passage_id"
	DataAnchor     = "anchor"
	DataExcerpt    = "excerpt"
	DataAuthors    = "authors"
)

// =============================================================================
// Payload - Inbound Graph Data
// =============================================================================

// Payload is the raw graph payload assembled by the backend for one focal
// passage. It is the canonical serialization format for API responses,
// payload caching, and the Mongo store.
//
// Facets carries the *available* facet values per dimension, not a user
// selection. An absent payload (backend has nothing for the OSIS reference)
// is a distinct state from a payload with zero nodes.
type Payload struct {
	OSIS   string `json:"osis" bson:"osis"`
	Nodes  []Node `json:"nodes" bson:"nodes"`
	Edges  []Edge `json:"edges" bson:"edges"`
	Facets Facets `json:"filters" bson:"filters"`
}

// Facets lists the available values for each filterable dimension.
type Facets struct {
	Perspectives []string `json:"perspectives" bson:"perspectives"`
	SourceTypes  []string `json:"source_types" bson:"source_types"`
}

// =============================================================================
// Node
// =============================================================================

// Node is an entity in the research graph: the focal verse, a citing
// document passage (mention), a commentary, or any future entity kind.
// Data is a kind-specific opaque payload.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Kind  string         `json:"kind" bson:"kind"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"`
	Data  map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// IsVerse reports whether this is the focal verse node.
func (n *Node) IsVerse() bool { return n.Kind == NodeKindVerse }

// IsMention reports whether this node is a citing document passage.
func (n *Node) IsMention() bool { return n.Kind == NodeKindMention }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// DeepLink is the navigation target carried by a mention node: enough to
// build a link into the cited document at the right passage. Anchor is a
// page number or media timestamp, depending on the source type.
type DeepLink struct {
	DocumentID string `json:"document_id"`
	PassageID  string `json:"passage_id"`
	Anchor     string `json:"anchor,omitempty"`
}

// DeepLink extracts the navigation target from a mention node's data.
// Returns false when the node is not a mention or its data lacks the
// document/passage pair; such a node carries no navigation action.
func (n *Node) DeepLink() (DeepLink, bool) {
	if !n.IsMention() || n.Data == nil {
		return DeepLink{}, false
	}
	doc, _ := n.Data[DataDocumentID].(string)
	passage, _ := n.Data[DataPassageID].(string)
	if doc == "" || passage == "" {
		return DeepLink{}, false
	}
	anchor, _ := n.Data[DataAnchor].(string)
	return DeepLink{DocumentID: doc, PassageID: passage, Anchor: anchor}, true
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a typed relationship between two nodes. Mention edges always carry
// SourceType; commentary/contradiction/harmony edges may carry Perspective
// but are not required to.
type Edge struct {
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	SourceID    string `json:"source_id" bson:"source_id"`
	TargetID    string `json:"target_id" bson:"target_id"`
	Kind        string `json:"kind" bson:"kind"`
	Perspective string `json:"perspective,omitempty" bson:"perspective,omitempty"`
	SourceType  string `json:"source_type,omitempty" bson:"source_type,omitempty"`
	Summary     string `json:"summary,omitempty" bson:"summary,omitempty"`
}

// IsMention reports whether this is a mention (citation) edge.
func (e *Edge) IsMention() bool { return e.Kind == EdgeKindMention }

// IsRelationship reports whether this is a relationship edge
// (anything other than a mention).
func (e *Edge) IsRelationship() bool { return e.Kind != EdgeKindMention }
