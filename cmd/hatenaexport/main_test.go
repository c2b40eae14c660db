package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/iabetor/hatenaexport/internal/atompub"
	"github.com/iabetor/hatenaexport/internal/config"
	"github.com/iabetor/hatenaexport/internal/database"
)

func TestLoadConfigFlagsOnly(t *testing.T) {
	cfg, err := loadConfig(flags{user: "nikkie-ftnext", year: 2019})
	if err != nil {
		t.Fatalf("loadConfig 失败: %v", err)
	}
	if cfg.FeedURL() != "https://blog.hatena.ne.jp/nikkie-ftnext/nikkie-ftnext.hatenablog.com/atom/entry" {
		t.Errorf("FeedURL = %s", cfg.FeedURL())
	}
	if cfg.OutputDir() != "entries_2019" {
		t.Errorf("OutputDir = %s", cfg.OutputDir())
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("blog:\n  user: alice\nexport:\n  year: 2018\n  output_dir: old\n"), 0644)

	cfg, err := loadConfig(flags{configPath: path, year: 2020, outputDir: "new", logLevel: "debug"})
	if err != nil {
		t.Fatalf("loadConfig 失败: %v", err)
	}
	if cfg.Blog.User != "alice" || cfg.Export.Year != 2020 || cfg.OutputDir() != "new" || cfg.Log.Level != "debug" {
		t.Errorf("覆盖结果不匹配: %+v", cfg)
	}
}

func TestLoadConfigMissingYear(t *testing.T) {
	if _, err := loadConfig(flags{user: "alice"}); err == nil {
		t.Error("缺少年份应返回错误")
	}
}

func TestRunTwoPageFeed(t *testing.T) {
	t.Setenv(atompub.EnvAPIKey, "secret")

	var srvURL string
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if _, pass, _ := r.BasicAuth(); pass != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, page(""))
			return
		}
		fmt.Fprint(w, page(srvURL+"/atom/entry?page=2"))
	}))
	defer srv.Close()
	srvURL = srv.URL

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Blog.User = "alice"
	cfg.Blog.EntriesURL = srv.URL + "/atom/entry"
	cfg.Export.Year = 2019
	cfg.Export.OutputDir = filepath.Join(dir, "entries_2019")
	cfg.Database.Path = filepath.Join(dir, "manifest.db")

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	if requests != 2 {
		t.Errorf("期望请求 2 次，实际 %d 次", requests)
	}

	files, _ := filepath.Glob(filepath.Join(cfg.Export.OutputDir, "*.txt"))
	sort.Strings(files)
	if len(files) != 3 {
		t.Fatalf("期望 3 个文件，得到 %v", files)
	}
	data, _ := os.ReadFile(filepath.Join(cfg.Export.OutputDir, "103.txt"))
	if string(data) != "Post 103。\n\nBody 103" {
		t.Errorf("文件内容 = %q", data)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("打开清单失败: %v", err)
	}
	defer db.Close()
	runs, err := db.ListRuns(1)
	if err != nil || len(runs) != 1 || runs[0].EntryCount != 3 {
		t.Errorf("清单不匹配: %+v %v", runs, err)
	}
}

func page(next string) string {
	if next != "" {
		return fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xmlns:app="http://www.w3.org/2007/app">
<link rel="next" href="%s" />
%s%s%s</feed>`, next,
			entry("103", "2019-11-01T00:00:00+09:00"),
			entry("102", "2019-06-01T00:00:00+09:00"),
			entry("101", "2019-02-01T00:00:00+09:00"))
	}
	return fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xmlns:app="http://www.w3.org/2007/app">%s</feed>`,
		entry("100", "2018-08-01T00:00:00+09:00"))
}

func entry(id, published string) string {
	return fmt.Sprintf(`<entry>
<link rel="edit" href="https://blog.hatena.ne.jp/alice/alice.hatenablog.com/atom/entry/%s" />
<title>Post %s</title>
<published>%s</published>
<content type="text/x-markdown">Body %s</content>
<app:control><app:draft>no</app:draft></app:control>
</entry>`, id, id, published, id)
}
