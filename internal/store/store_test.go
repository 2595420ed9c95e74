package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-io/lineal/internal/prov"
	"github.com/lineal-io/lineal/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineal.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testExecution(t *testing.T, seq int64) *prov.Execution {
	t.Helper()

	ids := testutil.NewFixedIDSource(
		fmt.Sprintf("urn:run:%d", seq),
		fmt.Sprintf("urn:pkg:%d", seq),
	)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	env := prov.Environment{
		Account: "tester",
		HostID:  "testhost",
		Runtime: "go-test",
		OS:      "testos/amd64",
		Modules: "example.com/app v1.0.0",
	}

	in := fmt.Sprintf("urn:obj:%d:in", seq)
	outB := fmt.Sprintf("urn:obj:%d:out-b", seq)
	outA := fmt.Sprintf("urn:obj:%d:out-a", seq)

	exec := prov.NewExecution(ids, seq, "demo", "harness", env, start)
	require.NoError(t, exec.Register(prov.NewDataObject(in, "/data/seed.csv")))
	require.NoError(t, exec.Register(prov.NewDataObject(outB, "/data/b.png")))
	require.NoError(t, exec.Register(prov.NewDataObject(outA, "/data/a.gif")))
	exec.AppendInput(in)
	exec.AppendOutput(outB)
	exec.AppendOutput(outA)
	exec.End(start.Add(time.Second))
	return exec
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineal.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.DB().QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestSaveGraph_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	exec := testExecution(t, 1)

	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(exec)))

	got, err := s.ReadRun(context.Background(), exec.ID)
	require.NoError(t, err)

	assert.Equal(t, exec.ID, got.ID)
	assert.Equal(t, exec.PackageID, got.PackageID)
	assert.Equal(t, exec.Tag, got.Tag)
	assert.Equal(t, exec.Seq, got.Seq)
	assert.Equal(t, exec.StartedAt, got.StartedAt)
	assert.Equal(t, exec.EndedAt, got.EndedAt)
	assert.Equal(t, exec.Env, got.Env)
	assert.Equal(t, exec.Application, got.Application)
	assert.Equal(t, exec.Objects, got.Objects)
	assert.Equal(t, exec.InputIDs, got.InputIDs)
	assert.Equal(t, exec.OutputIDs, got.OutputIDs, "output order preserved across save/read")
}

func TestSaveGraph_NilGraph(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveGraph(context.Background(), nil))
}

func TestSaveGraph_ResaveRefreshesLifecycle(t *testing.T) {
	s := openTestStore(t)
	exec := testExecution(t, 1)

	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(exec)))

	publish := time.Date(2024, 6, 1, 12, 5, 0, 0, time.UTC)
	exec.Publish(publish)
	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(exec)))

	got, err := s.ReadRun(context.Background(), exec.ID)
	require.NoError(t, err)
	assert.Equal(t, prov.FormatTime(publish), got.PublishedAt)
	assert.Equal(t, exec.OutputIDs, got.OutputIDs, "edge positions fixed by first save")
}

func TestReadRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadRun(context.Background(), "urn:missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)

	first := testExecution(t, 2)
	second := testExecution(t, 1)
	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(first)))
	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(second)))

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second.ID, runs[0].ExecutionID, "ordered by seq")
	assert.Equal(t, first.ID, runs[1].ExecutionID)
	assert.Equal(t, 3, runs[0].ObjectCount)
	assert.Equal(t, "demo", runs[0].Tag)
}

func TestListRuns_Empty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadGraph(t *testing.T) {
	s := openTestStore(t)
	exec := testExecution(t, 1)
	require.NoError(t, s.SaveGraph(context.Background(), prov.BuildGraph(exec)))

	g, err := s.ReadGraph(context.Background(), exec.ID)
	require.NoError(t, err)
	require.NotNil(t, g.Execution)
	assert.Len(t, g.Objects, 3)
	assert.Len(t, g.Edges, 3)
}
