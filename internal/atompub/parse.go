// Package atompub 提供 Hatena Blog AtomPub 条目集合的获取与解析。
package atompub

import (
	"io"

	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/iabetor/hatenaexport/internal/archive"
)

// appNamespace 是 AtomPub (RFC 5023) 的命名空间。
const appNamespace = "http://www.w3.org/2007/app"

// Parse 将 Atom 文档解析为 archive.Page。
func Parse(r io.Reader) (*archive.Page, error) {
	fp := &atom.Parser{}
	feed, err := fp.Parse(r)
	if err != nil {
		return nil, &archive.ParseError{What: "Atom 文档", Err: err}
	}

	page := &archive.Page{
		Links:   convertLinks(feed.Links),
		Entries: make([]archive.Entry, 0, len(feed.Entries)),
	}
	for _, e := range feed.Entries {
		page.Entries = append(page.Entries, convertEntry(e))
	}
	return page, nil
}

func convertEntry(e *atom.Entry) archive.Entry {
	entry := archive.Entry{
		Links:     convertLinks(e.Links),
		Title:     e.Title,
		Published: e.Published,
		Draft:     draftValue(e.Extensions),
	}
	if e.Content != nil {
		entry.Content = e.Content.Value
	}
	return entry
}

func convertLinks(links []*atom.Link) []archive.Link {
	out := make([]archive.Link, 0, len(links))
	for _, l := range links {
		if l == nil {
			continue
		}
		out = append(out, archive.Link{Rel: l.Rel, Href: l.Href})
	}
	return out
}

// draftValue 从扩展元素中取出 app:control/app:draft 的文本。
// gofeed 以前缀为键保存扩展，前缀取决于文档声明，因此依次尝试。
func draftValue(exts ext.Extensions) *string {
	for _, prefix := range []string{"app", appNamespace} {
		if v := findDraft(exts[prefix]); v != nil {
			return v
		}
	}
	for _, elems := range exts {
		if v := findDraft(elems); v != nil {
			return v
		}
	}
	return nil
}

func findDraft(elems map[string][]ext.Extension) *string {
	for _, control := range elems["control"] {
		if drafts := control.Children["draft"]; len(drafts) > 0 {
			v := drafts[0].Value
			return &v
		}
	}
	return nil
}
