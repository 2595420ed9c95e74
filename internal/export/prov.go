// Package export serializes an assembled provenance graph into a
// PROV-JSON-style document keyed by the execution, data package, and
// per-artifact urn identifiers.
//
// The exporter consumes the prov data model and nothing else from the
// tracking subsystem; it never mutates the graph it is handed.
package export

import (
	"fmt"

	"github.com/lineal-io/lineal/internal/prov"
)

// Namespace prefixes used in the exported document.
const (
	prefixProv   = "http://www.w3.org/ns/prov#"
	prefixLineal = "https://lineal.io/ns#"
)

// Document converts a graph to the PROV-JSON-style structure:
// one activity (the execution), an entity per data object, and one
// wasGeneratedBy / used record per edge.
//
// The result contains only strings, ints, maps and slices, so it is
// directly serializable with MarshalCanonical.
func Document(g *prov.Graph) (map[string]any, error) {
	if g == nil || g.Execution == nil {
		return nil, fmt.Errorf("export: nil graph")
	}

	exec := g.Execution

	activity := map[string]any{
		"prov:startTime":        exec.StartedAt,
		"lineal:dataPackage":    exec.PackageID,
		"lineal:seq":            exec.Seq,
		"lineal:account":        exec.Env.Account,
		"lineal:host":           exec.Env.HostID,
		"lineal:runtime":        exec.Env.Runtime,
		"lineal:os":             exec.Env.OS,
		"lineal:application":    exec.Application,
		"lineal:moduleSnapshot": exec.Env.Modules,
	}
	if exec.Tag != "" {
		activity["lineal:tag"] = exec.Tag
	}
	if exec.EndedAt != "" {
		activity["prov:endTime"] = exec.EndedAt
	}
	if exec.PublishedAt != "" {
		activity["lineal:publishTime"] = exec.PublishedAt
	}
	if exec.ErrorMessage != "" {
		activity["lineal:error"] = exec.ErrorMessage
	}

	entities := make(map[string]any, len(g.Objects))
	for _, obj := range g.Objects {
		entities[obj.ID] = map[string]any{
			"dcterms:format":  obj.FormatID,
			"prov:atLocation": obj.ResolvedPath,
		}
	}

	generated := make(map[string]any)
	used := make(map[string]any)
	for _, edge := range g.Edges {
		record := map[string]any{
			"prov:activity": edge.ExecutionID,
			"prov:entity":   edge.ObjectID,
		}
		switch edge.Relation {
		case prov.RelationWasGeneratedBy:
			generated[fmt.Sprintf("_:wGB%d", len(generated)+1)] = record
		case prov.RelationUsed:
			used[fmt.Sprintf("_:u%d", len(used)+1)] = record
		default:
			return nil, fmt.Errorf("export: unknown relation %q", edge.Relation)
		}
	}

	doc := map[string]any{
		"prefix": map[string]any{
			"prov":   prefixProv,
			"lineal": prefixLineal,
		},
		"activity": map[string]any{
			exec.ID: activity,
		},
		"entity": entities,
	}
	if len(generated) > 0 {
		doc["wasGeneratedBy"] = generated
	}
	if len(used) > 0 {
		doc["used"] = used
	}

	return doc, nil
}

// Marshal renders the graph as canonical PROV-JSON bytes.
func Marshal(g *prov.Graph) ([]byte, error) {
	doc, err := Document(g)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(doc)
}
