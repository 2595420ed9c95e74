package store

import (
	"context"
	"fmt"

	"github.com/lineal-io/lineal/internal/prov"
)

// SaveGraph persists a run's provenance graph in one transaction.
//
// Writes are idempotent on the urn identifiers:
//   - The run row upserts on execution_id; a re-save after EndRun or
//     Publish refreshes the mutable timestamps and the error message.
//     The immutable construction-time fields are written once and not
//     touched by the update.
//   - Object rows upsert on identifier; re-registration refreshes the
//     format and path (the "touched again" lifecycle).
//   - Edge rows use ON CONFLICT DO NOTHING; an edge's position is fixed
//     by its first save.
func (s *Store) SaveGraph(ctx context.Context, g *prov.Graph) error {
	if g == nil || g.Execution == nil {
		return fmt.Errorf("save graph: nil graph")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save graph: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	exec := g.Execution
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(execution_id, data_package_id, tag, seq, started_at, ended_at, published_at,
		 account_name, host_id, runtime, operating_system, software_application,
		 module_dependencies, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(execution_id) DO UPDATE SET
			ended_at = excluded.ended_at,
			published_at = excluded.published_at,
			error_message = excluded.error_message
	`,
		exec.ID,
		exec.PackageID,
		exec.Tag,
		exec.Seq,
		exec.StartedAt,
		exec.EndedAt,
		exec.PublishedAt,
		exec.Env.Account,
		exec.Env.HostID,
		exec.Env.Runtime,
		exec.Env.OS,
		exec.Application,
		exec.Env.Modules,
		exec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save graph: write run: %w", err)
	}

	for _, obj := range g.Objects {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO objects (identifier, execution_id, format_id, resolved_path)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(identifier) DO UPDATE SET
				format_id = excluded.format_id,
				resolved_path = excluded.resolved_path
		`, obj.ID, exec.ID, obj.FormatID, obj.ResolvedPath)
		if err != nil {
			return fmt.Errorf("save graph: write object %s: %w", obj.ID, err)
		}
	}

	// Positions restart per relation so each edge list replays in its
	// recorded order.
	positions := make(map[prov.Relation]int)
	for _, edge := range g.Edges {
		pos := positions[edge.Relation]
		positions[edge.Relation] = pos + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO edges (execution_id, object_id, relation, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, edge.ExecutionID, edge.ObjectID, string(edge.Relation), pos)
		if err != nil {
			return fmt.Errorf("save graph: write edge %s->%s: %w", edge.Relation, edge.ObjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save graph: commit: %w", err)
	}

	return nil
}
