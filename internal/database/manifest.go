// Package database 保存每次导出的清单。清单只写不读，遍历逻辑不依赖它。
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iabetor/hatenaexport/internal/export"
)

// RunInfo 一次导出的概要。
type RunInfo struct {
	ID         string
	Year       int
	FeedURL    string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt *time.Time
	EntryCount int
}

// Run 进行中的一次导出，实现 export.Recorder。
type Run struct {
	db    *DB
	id    string
	count int
}

var _ export.Recorder = (*Run)(nil)

// StartRun 登记一次新的导出。
func (db *DB) StartRun(year int, feedURL, outputDir string) (*Run, error) {
	id := uuid.New().String()
	_, err := db.Exec(
		`INSERT INTO export_runs (id, year, feed_url, output_dir, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, year, feedURL, outputDir, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("登记导出失败: %w", err)
	}
	return &Run{db: db, id: id}, nil
}

// ID 返回本次导出的 ID。
func (r *Run) ID() string { return r.id }

// Record 记录一篇已写出的文章。
func (r *Run) Record(e export.Exported) error {
	_, err := r.db.Exec(
		`INSERT INTO exported_entries (run_id, entry_id, title, published_at, path) VALUES (?, ?, ?, ?, ?)`,
		r.id, e.ID, e.Title, e.PublishedAt.UTC(), e.Path,
	)
	if err != nil {
		return err
	}
	r.count++
	return nil
}

// Finish 标记导出完成。
func (r *Run) Finish() error {
	_, err := r.db.Exec(
		`UPDATE export_runs SET finished_at = ?, entry_count = ? WHERE id = ?`,
		time.Now().UTC(), r.count, r.id,
	)
	return err
}

// ListRuns 按开始时间倒序返回最近的导出。
func (db *DB) ListRuns(limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT id, year, feed_url, output_dir, started_at, finished_at, entry_count
		 FROM export_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var ri RunInfo
		var finished *time.Time
		if err := rows.Scan(&ri.ID, &ri.Year, &ri.FeedURL, &ri.OutputDir, &ri.StartedAt, &finished, &ri.EntryCount); err != nil {
			return nil, err
		}
		ri.FinishedAt = finished
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// RunEntries 返回某次导出写出的文章。
func (db *DB) RunEntries(runID string) ([]export.Exported, error) {
	rows, err := db.Query(
		`SELECT entry_id, title, published_at, path FROM exported_entries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []export.Exported
	for rows.Next() {
		var e export.Exported
		if err := rows.Scan(&e.ID, &e.Title, &e.PublishedAt, &e.Path); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
