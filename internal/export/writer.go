// Package export 将筛选出的条目写成文本文件。
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iabetor/hatenaexport/internal/archive"
	"github.com/iabetor/hatenaexport/internal/logger"
)

// Exported 一篇已写出的文章。
type Exported struct {
	ID          string
	Title       string
	PublishedAt time.Time
	Path        string
}

// Recorder 记录已写出的文章，例如写入导出清单。
type Recorder interface {
	Record(e Exported) error
}

// Option 配置 Writer。
type Option func(*Writer)

// WithPlainText 写出前将正文中的 HTML 转为纯文本。
func WithPlainText() Option {
	return func(w *Writer) { w.plainText = true }
}

// WithRecorder 每写出一个文件后调用 r。
func WithRecorder(r Recorder) Option {
	return func(w *Writer) { w.recorder = r }
}

// Writer 把条目写到 dir/{id}.txt，同名文件直接覆盖。
type Writer struct {
	dir       string
	plainText bool
	recorder  Recorder
}

// NewWriter 创建输出目录为 dir 的 Writer。
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir 返回输出目录。
func (w *Writer) Dir() string { return w.dir }

// WriteAll 写出所有条目，返回文件路径。
func (w *Writer) WriteAll(entries []archive.Entry) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录 %s 失败: %w", w.dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		path, err := w.write(e)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	logger.Infof("[export] 已写出 %d 个文件到 %s", len(paths), w.dir)
	return paths, nil
}

func (w *Writer) write(e archive.Entry) (string, error) {
	id, err := archive.Identifier(e)
	if err != nil {
		return "", err
	}
	if w.plainText {
		e.Content = PlainText(e.Content)
	}

	path := filepath.Join(w.dir, id+".txt")
	if err := os.WriteFile(path, []byte(archive.Content(e)), 0644); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	logger.Debugf("[export] %s -> %s", e.Title, path)

	if w.recorder != nil {
		// 能写出的条目在遍历阶段已通过日期校验
		published, _ := archive.PublishedAt(e)
		if err := w.recorder.Record(Exported{ID: id, Title: e.Title, PublishedAt: published, Path: path}); err != nil {
			return path, fmt.Errorf("记录 %s 失败: %w", id, err)
		}
	}
	return path, nil
}
