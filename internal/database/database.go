package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iabetor/hatenaexport/internal/logger"
	_ "modernc.org/sqlite"
)

// DB 导出清单使用的 SQLite 连接。
type DB struct {
	*sql.DB
	path string
}

// Open 打开或创建数据库文件。
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("数据库路径为空")
	}

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("启用外键约束失败: %w", err)
	}

	logger.Debugf("[database] 数据库已打开: %s", dbPath)
	return &DB{DB: db, path: dbPath}, nil
}

// Path 返回数据库文件路径。
func (db *DB) Path() string {
	return db.path
}

// Migrate 创建导出清单所需的表。
func (db *DB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS export_runs (
			id TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			feed_url TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			entry_count INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS exported_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES export_runs(id) ON DELETE CASCADE,
			entry_id TEXT NOT NULL,
			title TEXT NOT NULL,
			published_at DATETIME NOT NULL,
			path TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_exported_entries_run ON exported_entries(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_export_runs_started ON export_runs(started_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			logger.Warnf("[database] 创建索引失败: %v", err)
		}
	}
	return nil
}

// Close 关闭数据库连接。
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}
