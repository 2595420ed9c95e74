package prov

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraph_NodesAndEdges(t *testing.T) {
	ids := &stubIDs{ids: []string{"urn:test:exec", "urn:test:pkg"}}
	exec := NewExecution(ids, 1, "demo", "app", testEnv(), time.Now())

	require.NoError(t, exec.Register(NewDataObject("urn:test:b", "/data/b.png")))
	require.NoError(t, exec.Register(NewDataObject("urn:test:a", "/data/a.csv")))
	require.NoError(t, exec.Register(NewDataObject("urn:test:c", "/data/c.gif")))
	exec.AppendInput("urn:test:a")
	exec.AppendOutput("urn:test:c")
	exec.AppendOutput("urn:test:b")

	g := BuildGraph(exec)

	require.Len(t, g.Objects, 3)
	assert.Equal(t, "urn:test:a", g.Objects[0].ID, "objects sorted by identifier")
	assert.Equal(t, "urn:test:b", g.Objects[1].ID)
	assert.Equal(t, "urn:test:c", g.Objects[2].ID)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, Edge{Relation: RelationUsed, ExecutionID: "urn:test:exec", ObjectID: "urn:test:a"}, g.Edges[0])
	assert.Equal(t, Edge{Relation: RelationWasGeneratedBy, ExecutionID: "urn:test:exec", ObjectID: "urn:test:c"}, g.Edges[1],
		"output edges keep finalization order")
	assert.Equal(t, Edge{Relation: RelationWasGeneratedBy, ExecutionID: "urn:test:exec", ObjectID: "urn:test:b"}, g.Edges[2])
}

func TestBuildGraph_Deterministic(t *testing.T) {
	ids := &stubIDs{ids: []string{"urn:test:exec", "urn:test:pkg"}}
	exec := NewExecution(ids, 1, "", "app", testEnv(), time.Now())

	require.NoError(t, exec.Register(NewDataObject("urn:test:2", "/data/2.png")))
	require.NoError(t, exec.Register(NewDataObject("urn:test:1", "/data/1.png")))

	first := BuildGraph(exec)
	second := BuildGraph(exec)

	assert.Equal(t, first.Objects, second.Objects, "two derivations order identically")
	assert.Equal(t, first.Edges, second.Edges)
}

func TestBuildGraph_EmptyRun(t *testing.T) {
	ids := &stubIDs{ids: []string{"urn:test:exec", "urn:test:pkg"}}
	exec := NewExecution(ids, 1, "", "app", testEnv(), time.Now())

	g := BuildGraph(exec)

	assert.Empty(t, g.Objects)
	assert.Empty(t, g.Edges)
	assert.Same(t, exec, g.Execution)
}
