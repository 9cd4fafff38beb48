package core

import (
	"time"

	"riscore/pkg/domain"
)

// OrgUnitNode is one node of the reconstructed organigram. Children keep the
// relative order of the input collection so repeated builds over the same
// snapshot are deterministic.
type OrgUnitNode struct {
	domain.OrgUnit
	Children []*OrgUnitNode `json:"children,omitempty"`
}

// OrgUnitTree is the reconstructed hierarchy for one snapshot. Root is nil
// for an empty snapshot. AsOf records the instant the snapshot was scoped
// to; nil means the current record set was used unfiltered.
type OrgUnitTree struct {
	AsOf  *time.Time   `json:"asOf,omitempty"`
	Root  *OrgUnitNode `json:"root,omitempty"`
	Units int          `json:"units"`
}

// Walk visits every node of the tree depth-first in child order.
func (t *OrgUnitTree) Walk(visit func(*OrgUnitNode)) {
	var walk func(*OrgUnitNode)
	walk = func(n *OrgUnitNode) {
		visit(n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	if t.Root != nil {
		walk(t.Root)
	}
}

// BuildTree reconstructs the organizational tree from flat records. When
// asOf is non-nil only records whose validity interval contains asOf take
// part; the tree is therefore a pure function of (records, asOf) and must
// be recomputed per query rather than cached, because partOf is a
// time-varying relation.
//
// A unit whose partOf points outside the snapshot is promoted to a root
// candidate: the parent may simply not be valid at the requested date.
// Exactly one root candidate must remain; zero units yield an empty tree,
// two or more candidates yield StructuralError(MultipleRoots), and a
// parent cycle yields StructuralError(Cycle) naming the offending chain,
// never a partial tree.
func BuildTree(records []domain.OrgUnit, asOf *time.Time) (*OrgUnitTree, error) {
	snapshot := records
	if asOf != nil {
		snapshot = make([]domain.OrgUnit, 0, len(records))
		for _, r := range records {
			if r.ValidAt(*asOf) {
				snapshot = append(snapshot, r)
			}
		}
	}

	tree := &OrgUnitTree{AsOf: asOf, Units: len(snapshot)}
	if len(snapshot) == 0 {
		return tree, nil
	}

	index := make(map[string]domain.OrgUnit, len(snapshot))
	for _, r := range snapshot {
		if _, dup := index[r.ID]; !dup {
			index[r.ID] = r
		}
	}

	if chain := findCycle(snapshot, index); chain != nil {
		return nil, domain.StructuralError{Kind: domain.StructuralCycle, IDs: chain}
	}

	var roots []string
	children := make(map[string][]string, len(snapshot))
	seen := make(map[string]bool, len(snapshot))
	for _, r := range snapshot {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		if parent, ok := resolveParent(r, index); ok {
			children[parent] = append(children[parent], r.ID)
		} else {
			roots = append(roots, r.ID)
		}
	}
	if len(roots) > 1 {
		return nil, domain.StructuralError{Kind: domain.StructuralMultipleRoots, IDs: roots}
	}

	var build func(id string) *OrgUnitNode
	build = func(id string) *OrgUnitNode {
		node := &OrgUnitNode{OrgUnit: index[id]}
		for _, childID := range children[id] {
			node.Children = append(node.Children, build(childID))
		}
		return node
	}
	tree.Root = build(roots[0])
	return tree, nil
}

// resolveParent returns the in-snapshot parent of r, when present. A
// self-reference resolves to the unit itself and is caught as a cycle of
// length one by findCycle before adjacency is built.
func resolveParent(r domain.OrgUnit, index map[string]domain.OrgUnit) (string, bool) {
	if r.PartOf == nil {
		return "", false
	}
	if _, ok := index[*r.PartOf]; !ok {
		return "", false
	}
	return *r.PartOf, true
}

// findCycle walks every parent chain with a visiting set and returns the id
// chain of the first cycle encountered, in traversal order, or nil.
func findCycle(snapshot []domain.OrgUnit, index map[string]domain.OrgUnit) []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(index))

	for _, start := range snapshot {
		if state[start.ID] != unvisited {
			continue
		}
		var chain []string
		id := start.ID
		for {
			if state[id] == visiting {
				// Trim the lead-in so the chain names only the cycle.
				for i, seen := range chain {
					if seen == id {
						return append(chain[i:], id)
					}
				}
				return append(chain, id)
			}
			if state[id] == done {
				break
			}
			state[id] = visiting
			chain = append(chain, id)
			unit := index[id]
			parent, ok := resolveParent(unit, index)
			if !ok {
				break
			}
			id = parent
		}
		for _, v := range chain {
			state[v] = done
		}
	}
	return nil
}

// FindOrgUnit locates one unit by id within the current snapshot.
func FindOrgUnit(records []domain.OrgUnit, id string) (domain.OrgUnit, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.OrgUnit{}, false
}
