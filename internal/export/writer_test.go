package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iabetor/hatenaexport/internal/archive"
)

func testEntry(href, title, body string) archive.Entry {
	no := "no"
	return archive.Entry{
		Links:     []archive.Link{{Rel: "edit", Href: href}},
		Title:     title,
		Content:   body,
		Published: "2019-05-01T12:00:00+09:00",
		Draft:     &no,
	}
}

type memRecorder struct {
	records []Exported
	err     error
}

func (m *memRecorder) Record(e Exported) error {
	m.records = append(m.records, e)
	return m.err
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "entries_2019")
	w := NewWriter(dir)

	paths, err := w.WriteAll([]archive.Entry{
		testEntry("https://example.com/entry/12345", "Hello", "World"),
		testEntry("https://example.com/entry/67890", "二つ目", "本文"),
	})
	if err != nil {
		t.Fatalf("WriteAll 失败: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("期望 2 个文件，得到 %d 个", len(paths))
	}

	data, err := os.ReadFile(filepath.Join(dir, "12345.txt"))
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	if string(data) != "Hello。\n\nWorld" {
		t.Errorf("文件内容 = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "67890.txt")); err != nil {
		t.Errorf("缺少第二个文件: %v", err)
	}
}

func TestWriteAllOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.txt")
	if err := os.WriteFile(path, []byte("old content that is longer"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewWriter(dir).WriteAll([]archive.Entry{testEntry("https://example.com/entry/1", "a", "b")}); err != nil {
		t.Fatalf("WriteAll 失败: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "a。\n\nb" {
		t.Errorf("同名文件应被覆盖: %q", data)
	}
}

func TestWriteAllEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := NewWriter(dir).WriteAll(nil)
	if err != nil {
		t.Fatalf("WriteAll 失败: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("不应写出文件: %v", paths)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("输出目录应被创建: %v", err)
	}
}

func TestWriteAllMissingLink(t *testing.T) {
	e := testEntry("", "t", "b")
	e.Links = nil
	_, err := NewWriter(t.TempDir()).WriteAll([]archive.Entry{e})
	if !errors.Is(err, archive.ErrStructure) {
		t.Errorf("期望 ErrStructure，得到 %v", err)
	}
}

func TestWriteAllRecorder(t *testing.T) {
	rec := &memRecorder{}
	dir := t.TempDir()
	_, err := NewWriter(dir, WithRecorder(rec)).WriteAll([]archive.Entry{
		testEntry("https://example.com/entry/42", "Title", "Body"),
	})
	if err != nil {
		t.Fatalf("WriteAll 失败: %v", err)
	}
	if len(rec.records) != 1 {
		t.Fatalf("期望 1 条记录，得到 %d 条", len(rec.records))
	}
	r := rec.records[0]
	if r.ID != "42" || r.Title != "Title" || r.Path != filepath.Join(dir, "42.txt") {
		t.Errorf("记录不匹配: %+v", r)
	}
	if r.PublishedAt.Year() != 2019 {
		t.Errorf("发布时间不匹配: %v", r.PublishedAt)
	}

	rec.err = errors.New("disk full")
	if _, err := NewWriter(dir, WithRecorder(rec)).WriteAll([]archive.Entry{testEntry("https://example.com/entry/43", "a", "b")}); err == nil {
		t.Error("记录失败应返回错误")
	}
}

func TestWriteAllPlainText(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, WithPlainText()).WriteAll([]archive.Entry{
		testEntry("https://example.com/entry/7", "T", "<p>Hello &amp; <b>bye</b></p><p>next</p>"),
	})
	if err != nil {
		t.Fatalf("WriteAll 失败: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "7.txt"))
	if string(data) != "T。\n\nHello & bye\n\nnext" {
		t.Errorf("纯文本内容 = %q", data)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a<br>b", "a\nb"},
		{"<div>x</div><script>var y = 1;</script><style>p{}</style>z", "x\n\nz"},
		{"<p>1</p>\n\n\n<p>2</p>", "1\n\n2"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
