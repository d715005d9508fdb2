package emit

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"examtally/internal/aggregate"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// SQLite writes the table into a fresh database file with one row per run,
// transcript, question, and recorded score.
type SQLite struct {
	Labels Labels
	// RunID keys every row; a random one is generated when empty.
	RunID string
	// Now is the clock used for runs.created_at.
	Now func() time.Time
}

func (s *SQLite) Extension() string { return ".db" }

func (s *SQLite) Emit(ctx context.Context, table aggregate.Table, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("apply pragma: %w", err)
	}

	runID := s.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, language, transcript_count, question_count) VALUES (?, ?, ?, ?, ?)",
		runID, now().UTC().Format(time.RFC3339), s.Labels.Tag.String(), len(table.Columns), len(table.Rows),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, col := range table.Columns {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO transcripts (run_id, position, source, student_name, total_score, label) VALUES (?, ?, ?, ?, ?, ?)",
			runID, i, col.Source, col.Name, col.Total, col.Label(),
		); err != nil {
			return fmt.Errorf("insert transcript %d: %w", i, err)
		}
	}

	questionStmt, err := tx.PrepareContext(ctx, `INSERT INTO questions (
		run_id, position, type, bucket_index, text,
		option_a, option_b, option_c, option_d, option_e, option_f, option_g, option_h,
		answer, level1, level2, level3, positive, rate, percent
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare question insert: %w", err)
	}
	defer questionStmt.Close()

	scoreStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO scores (run_id, question_position, transcript_position, score) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare score insert: %w", err)
	}
	defer scoreStmt.Close()

	for pos, row := range table.Rows {
		q := row.Question
		args := []any{runID, pos, q.Type.String(), q.Index, q.Text}
		for _, opt := range q.Options {
			args = append(args, opt)
		}
		args = append(args, q.Answer, q.Classification[0], q.Classification[1], q.Classification[2],
			row.Positive, row.Rate, row.Percent)
		if _, err := questionStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert question %d: %w", pos, err)
		}
		for col, cell := range row.Cells {
			if !cell.Set {
				continue
			}
			if _, err := scoreStmt.ExecContext(ctx, runID, pos, col, cell.Value); err != nil {
				return fmt.Errorf("insert score %d/%d: %w", pos, col, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
