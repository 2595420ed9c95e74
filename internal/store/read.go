package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lineal-io/lineal/internal/prov"
)

// RunSummary is one row of the run listing.
type RunSummary struct {
	ExecutionID string `json:"execution_id"`
	PackageID   string `json:"data_package_id"`
	Tag         string `json:"tag,omitempty"`
	Seq         int64  `json:"seq"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at,omitempty"`
	ObjectCount int    `json:"object_count"`
}

// ListRuns returns summaries for every stored run.
// Ordering is deterministic: seq ASC, then execution_id COLLATE BINARY.
//
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.execution_id, r.data_package_id, r.tag, r.seq, r.started_at, r.ended_at,
		       (SELECT COUNT(*) FROM objects o WHERE o.execution_id = r.execution_id)
		FROM runs r
		ORDER BY r.seq ASC, r.execution_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var sum RunSummary
		if err := rows.Scan(&sum.ExecutionID, &sum.PackageID, &sum.Tag, &sum.Seq,
			&sum.StartedAt, &sum.EndedAt, &sum.ObjectCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return summaries, nil
}

// ReadRun reconstructs a stored Execution, including its object table and
// input/output identifier sequences.
//
// Returns sql.ErrNoRows wrapped when no run has the given execution id.
func (s *Store) ReadRun(ctx context.Context, executionID string) (*prov.Execution, error) {
	exec := &prov.Execution{
		Objects: make(map[string]*prov.DataObject),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT execution_id, data_package_id, tag, seq, started_at, ended_at, published_at,
		       account_name, host_id, runtime, operating_system, software_application,
		       module_dependencies, error_message
		FROM runs
		WHERE execution_id = ?
	`, executionID).Scan(
		&exec.ID,
		&exec.PackageID,
		&exec.Tag,
		&exec.Seq,
		&exec.StartedAt,
		&exec.EndedAt,
		&exec.PublishedAt,
		&exec.Env.Account,
		&exec.Env.HostID,
		&exec.Env.Runtime,
		&exec.Env.OS,
		&exec.Application,
		&exec.Env.Modules,
		&exec.ErrorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", executionID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}

	if err := s.readObjects(ctx, exec); err != nil {
		return nil, err
	}

	exec.InputIDs, err = s.readEdgeIDs(ctx, executionID, prov.RelationUsed)
	if err != nil {
		return nil, err
	}
	exec.OutputIDs, err = s.readEdgeIDs(ctx, executionID, prov.RelationWasGeneratedBy)
	if err != nil {
		return nil, err
	}

	return exec, nil
}

// ReadGraph reconstructs the full provenance graph for a stored run.
func (s *Store) ReadGraph(ctx context.Context, executionID string) (*prov.Graph, error) {
	exec, err := s.ReadRun(ctx, executionID)
	if err != nil {
		return nil, err
	}
	return prov.BuildGraph(exec), nil
}

// readObjects fills exec.Objects with deterministic ordering.
func (s *Store) readObjects(ctx context.Context, exec *prov.Execution) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier, format_id, resolved_path
		FROM objects
		WHERE execution_id = ?
		ORDER BY identifier COLLATE BINARY ASC
	`, exec.ID)
	if err != nil {
		return fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		obj := &prov.DataObject{}
		if err := rows.Scan(&obj.ID, &obj.FormatID, &obj.ResolvedPath); err != nil {
			return fmt.Errorf("scan object: %w", err)
		}
		exec.Objects[obj.ID] = obj
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate objects: %w", err)
	}

	return nil
}

// readEdgeIDs returns one relation's object ids in recorded order.
func (s *Store) readEdgeIDs(ctx context.Context, executionID string, rel prov.Relation) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id
		FROM edges
		WHERE execution_id = ? AND relation = ?
		ORDER BY position ASC
	`, executionID, string(rel))
	if err != nil {
		return nil, fmt.Errorf("query %s edges: %w", rel, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}

	return ids, nil
}
