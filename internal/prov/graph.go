package prov

import "sort"

// Relation names an edge kind in the provenance graph.
type Relation string

const (
	// RelationWasGeneratedBy links an output object to the execution that
	// produced it.
	RelationWasGeneratedBy Relation = "wasGeneratedBy"

	// RelationUsed links the execution to an object it consumed.
	RelationUsed Relation = "used"
)

// Edge is one relation between the execution and a data object.
type Edge struct {
	Relation    Relation `json:"relation"`
	ExecutionID string   `json:"execution_id"`
	ObjectID    string   `json:"object_id"`
}

// Graph is the assembled provenance graph for one run: the execution node,
// its object nodes, and the used / wasGeneratedBy edges. It is derived
// from the Execution on demand, never stored separately.
type Graph struct {
	Execution *Execution    `json:"execution"`
	Objects   []*DataObject `json:"objects"`
	Edges     []Edge        `json:"edges"`
}

// BuildGraph derives the graph for exec.
//
// Objects are sorted by identifier so two derivations of the same run are
// byte-identical after serialization. Edges keep semantic order: used
// edges in first-use order, then wasGeneratedBy edges in finalization
// order.
func BuildGraph(exec *Execution) *Graph {
	objects := make([]*DataObject, 0, len(exec.Objects))
	for _, obj := range exec.Objects {
		objects = append(objects, obj)
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].ID < objects[j].ID
	})

	edges := make([]Edge, 0, len(exec.InputIDs)+len(exec.OutputIDs))
	for _, id := range exec.InputIDs {
		edges = append(edges, Edge{
			Relation:    RelationUsed,
			ExecutionID: exec.ID,
			ObjectID:    id,
		})
	}
	for _, id := range exec.OutputIDs {
		edges = append(edges, Edge{
			Relation:    RelationWasGeneratedBy,
			ExecutionID: exec.ID,
			ObjectID:    id,
		})
	}

	return &Graph{
		Execution: exec,
		Objects:   objects,
		Edges:     edges,
	}
}
