package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DB
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Save(ctx context.Context, rec *models.TaskRecord) error {
	now := r.now()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	query := `INSERT INTO upload_tasks (id, source_path, relative_path, target_path, size, mod_time,
			chunk_size, total_chunks, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			relative_path = excluded.relative_path,
			target_path = excluded.target_path,
			size = excluded.size,
			mod_time = excluded.mod_time,
			chunk_size = excluded.chunk_size,
			total_chunks = excluded.total_chunks,
			status = excluded.status,
			updated_at = excluded.updated_at`

	err := dbx.WithTx(ctx, r.db, func(tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, query, rec.ID, rec.SourcePath, rec.RelativePath, rec.TargetPath,
			rec.Size, rec.ModTime.UnixNano(), rec.ChunkSize, rec.TotalChunks, string(rec.Status),
			created.UnixNano(), now.UnixNano())
		if err != nil {
			return err
		}
		for _, idx := range rec.UploadedChunks {
			if err := insertChunk(ctx, tx, rec.ID, idx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkChunk(ctx context.Context, id string, index int) error {
	err := dbx.WithTx(ctx, r.db, func(tx dbx.DBTX) error {
		if err := updateStatus(ctx, tx, id, models.StatusUploading, r.now()); err != nil {
			return err
		}
		return insertChunk(ctx, tx, id, index)
	})
	if err != nil {
		return fmt.Errorf("failed to mark chunk %d of task %s: %w", index, id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if err := updateStatus(ctx, r.db, id, status, r.now()); err != nil {
		return fmt.Errorf("failed to set status of task %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, r.db, func(tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM upload_chunks WHERE task_id = ?`, id); err != nil {
			return err
		}
		return dbx.Affected(tx.ExecContext(ctx, `DELETE FROM upload_tasks WHERE id = ?`, id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.TaskRecord, error) {
	query := `SELECT id, source_path, relative_path, target_path, size, mod_time, chunk_size,
			total_chunks, status, created_at, updated_at
		FROM upload_tasks WHERE id = ?`

	rec, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}

	chunks, err := r.chunks(ctx, `SELECT task_id, chunk_index FROM upload_chunks WHERE task_id = ?`, id)
	if err != nil {
		return nil, err
	}
	rec.UploadedChunks = chunks[id]
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.TaskRecord, error) {
	query := `SELECT id, source_path, relative_path, target_path, size, mod_time, chunk_size,
			total_chunks, status, created_at, updated_at
		FROM upload_tasks ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	chunks, err := r.chunks(ctx, `SELECT task_id, chunk_index FROM upload_chunks`)
	if err != nil {
		return nil, err
	}
	for _, rec := range result {
		rec.UploadedChunks = chunks[rec.ID]
	}
	return result, nil
}

func (r *SQLiteRepository) ListUnfinished(ctx context.Context) ([]*models.TaskRecord, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if rec.Status.Unfinished() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *SQLiteRepository) chunks(ctx context.Context, query string, args ...any) (map[string][]int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]int)
	for rows.Next() {
		var id string
		var idx int
		if err := rows.Scan(&id, &idx); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		out[id] = append(out[id], idx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk rows: %w", err)
	}
	for _, idx := range out {
		sort.Ints(idx)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.TaskRecord, error) {
	var (
		rec                       models.TaskRecord
		status                    string
		modTime, created, updated int64
	)
	err := row.Scan(&rec.ID, &rec.SourcePath, &rec.RelativePath, &rec.TargetPath, &rec.Size, &modTime,
		&rec.ChunkSize, &rec.TotalChunks, &status, &created, &updated)
	if err != nil {
		return nil, err
	}
	rec.Status = models.TaskStatus(status)
	rec.ModTime = time.Unix(0, modTime)
	rec.CreatedAt = time.Unix(0, created)
	rec.UpdatedAt = time.Unix(0, updated)
	return &rec, nil
}

func updateStatus(ctx context.Context, db dbx.DBTX, id string, status models.TaskStatus, now time.Time) error {
	return dbx.Affected(db.ExecContext(ctx, `UPDATE upload_tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now.UnixNano(), id))
}

func insertChunk(ctx context.Context, db dbx.DBTX, id string, idx int) error {
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO upload_chunks (task_id, chunk_index) VALUES (?, ?)`, id, idx)
	return err
}
