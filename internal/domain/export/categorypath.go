package export

import "strings"

// PathSeparator joins category names into a flattened path string.
const PathSeparator = " > "

// PathResolver resolves a category id to its flattened root-to-leaf path.
// It works entirely off a preloaded node set; an unresolvable or unloaded
// ancestor simply ends the walk. A resolver built from no nodes resolves
// every id to the empty string.
type PathResolver struct {
	nodes  map[int64]CategoryNode
	rootID int64
	homeID int64
}

// NewPathResolver builds a resolver over the given active categories. Nodes
// whose id equals rootID or homeID are excluded from resolved paths.
func NewPathResolver(nodes []CategoryNode, rootID, homeID int64) *PathResolver {
	m := make(map[int64]CategoryNode, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return &PathResolver{nodes: m, rootID: rootID, homeID: homeID}
}

// Resolve walks the parent chain starting at categoryID and returns the
// collected names in root-to-leaf order joined by PathSeparator. The walk
// stops at an id missing from the preloaded set and at a node that is its
// own parent; longer reference cycles are not detected and rely on an
// ancestor being absent from the active set.
func (r *PathResolver) Resolve(categoryID int64) string {
	var names []string

	current := categoryID
	for current != 0 {
		node, ok := r.nodes[current]
		if !ok {
			break
		}
		if node.ID != r.rootID && node.ID != r.homeID {
			names = append(names, node.Name)
		}
		if node.ParentID == node.ID {
			break
		}
		current = node.ParentID
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator)
}
