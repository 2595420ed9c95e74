package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-io/lineal/internal/prov"
	"github.com/lineal-io/lineal/internal/testutil"
)

func newTestCoordinator(t *testing.T) (*Coordinator, string) {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	coord := New(Options{
		Config:      Config{Capture: true},
		Application: "app_test",
		IDs:         &testutil.SequentialIDSource{},
		Now:         testutil.NewFrozenClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)).Now,
		Probe:       testutil.FixedProbe(),
		Resolver:    &prov.Resolver{WorkDir: dir},
	})
	return coord, dir
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestCoordinator_BeginRun(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	run := coord.BeginRun("demo")

	assert.Equal(t, "demo", run.Tag)
	assert.Equal(t, int64(1), run.Seq)
	assert.NotEmpty(t, run.ID)
	assert.NotEmpty(t, run.PackageID)
	assert.NotEmpty(t, run.StartedAt)
	assert.Empty(t, run.EndedAt)
	assert.Equal(t, "app_test", run.Application)
	assert.Equal(t, "testhost", run.Env.HostID)
	assert.Same(t, run, coord.Run())
}

func TestCoordinator_BeginRunReplacesPrevious(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	touch(t, dir, "out.png")

	first := coord.BeginRun("one")
	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))
	require.Len(t, coord.Run().Objects, 1)

	second := coord.BeginRun("two")

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(2), second.Seq, "sequence keeps counting across runs")
	assert.Empty(t, second.Objects, "a new run discards the prior run's in-memory state")
	assert.Empty(t, coord.Diagnostics())
}

func TestCoordinator_RecordOutput(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	touch(t, dir, "out.png")
	coord.BeginRun("")

	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))

	run := coord.Run()
	require.Len(t, run.Objects, 1)
	require.Len(t, run.OutputIDs, 1)

	obj := run.Objects[run.OutputIDs[0]]
	require.NotNil(t, obj)
	assert.Equal(t, "image/png", obj.FormatID)
	assert.True(t, filepath.IsAbs(obj.ResolvedPath))
	assert.Equal(t, "out.png", filepath.Base(obj.ResolvedPath))
}

func TestCoordinator_RepeatWriteKeepsOneIdentifier(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	touch(t, dir, "out.png")
	coord.BeginRun("")

	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))
	firstID := coord.Run().OutputIDs[0]

	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))
	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "./out.png"}))

	run := coord.Run()
	assert.Len(t, run.Objects, 1, "one logical artifact, one object")
	assert.Equal(t, []string{firstID}, run.OutputIDs,
		"repeat writes are updated, not re-generated")
}

func TestCoordinator_DistinctPathsDistinctIdentifiers(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	coord.BeginRun("")

	const n = 7
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("out%d.png", i)
		touch(t, dir, name)
		require.NoError(t, coord.RecordOutput(DirectWrite{Dest: name}))
	}

	run := coord.Run()
	assert.Len(t, run.Objects, n)
	assert.Len(t, run.OutputIDs, n)

	seen := make(map[string]bool)
	for _, id := range run.OutputIDs {
		assert.False(t, seen[id], "identifier %s repeated", id)
		seen[id] = true
	}
}

func TestCoordinator_CaptureDisabled(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	coord.SetCapture(false)
	touch(t, dir, "out.png")
	coord.BeginRun("")

	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))

	assert.Empty(t, coord.Run().Objects, "no tracking occurs when capture is off")
	assert.Empty(t, coord.Diagnostics())
}

func TestCoordinator_NoActiveRun(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	touch(t, dir, "out.png")

	err := coord.RecordOutput(DirectWrite{Dest: "out.png"})
	require.Error(t, err)
	assert.True(t, prov.IsTrackError(err, prov.ErrCodeNoActiveRun))
	assert.Len(t, coord.Diagnostics(), 1)
}

func TestCoordinator_UnresolvablePath(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	coord.BeginRun("")

	err := coord.RecordOutput(DirectWrite{Dest: "missing.png"})
	require.Error(t, err)
	assert.True(t, prov.IsTrackError(err, prov.ErrCodePathResolution))
	assert.Empty(t, coord.Run().Objects, "no object is created on resolution failure")
	assert.Len(t, coord.Diagnostics(), 1)
}

func TestCoordinator_RecordInput(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	touch(t, dir, "seed.csv")
	touch(t, dir, "out.png")
	coord.BeginRun("")

	require.NoError(t, coord.RecordInput("seed.csv"))
	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))
	require.NoError(t, coord.RecordInput("seed.csv"))

	run := coord.Run()
	assert.Len(t, run.Objects, 2)
	assert.Len(t, run.InputIDs, 1, "input dedup follows the output rules")
	assert.Len(t, run.OutputIDs, 1)
}

func TestCoordinator_EndRun(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	coord.BeginRun("")

	coord.EndRun("")
	assert.NotEmpty(t, coord.Run().EndedAt)
	assert.Empty(t, coord.Run().ErrorMessage)

	coord.BeginRun("")
	coord.EndRun("computation failed")
	assert.Equal(t, "computation failed", coord.Run().ErrorMessage)
}

func TestCoordinator_Publish(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	coord.BeginRun("")
	coord.Publish()
	assert.NotEmpty(t, coord.Run().PublishedAt)
}

func TestCoordinator_Graph(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	assert.Nil(t, coord.Graph(), "no graph without a run")

	touch(t, dir, "out.png")
	coord.BeginRun("")
	require.NoError(t, coord.RecordOutput(DirectWrite{Dest: "out.png"}))

	g := coord.Graph()
	require.NotNil(t, g)
	assert.Len(t, g.Objects, 1)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, prov.RelationWasGeneratedBy, g.Edges[0].Relation)
}

func TestCoordinator_ConcurrentRecords(t *testing.T) {
	coord, dir := newTestCoordinator(t)
	coord.BeginRun("")

	const goroutines = 16
	touch(t, dir, "shared.png")

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = coord.RecordOutput(DirectWrite{Dest: "shared.png"})
			}
		}()
	}
	wg.Wait()

	run := coord.Run()
	assert.Len(t, run.Objects, 1, "identity resolution is atomic under concurrency")
	assert.Len(t, run.OutputIDs, 1)
}

func TestContextRoundTrip(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	ctx := NewContext(context.Background(), coord)
	got, ok := FromContext(ctx)

	require.True(t, ok)
	assert.Same(t, coord, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
