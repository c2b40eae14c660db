// Package archive 实现博客 Feed 的分页遍历与按年份筛选文章。
package archive

import (
	"fmt"
	"strings"
	"time"
)

// draftYes 是 app:draft 表示草稿的取值。
const draftYes = "yes"

// Link Feed 或条目中的链接。
type Link struct {
	Rel  string
	Href string
}

// Entry Feed 中的一篇文章，解析后只读。
type Entry struct {
	Links     []Link // 按文档顺序，第一个为规范 URI
	Title     string
	Content   string
	Published string  // 原始 ISO-8601 文本
	Draft     *string // app:control/app:draft 的文本，缺失时为 nil
}

// Page 一次请求得到的 Feed 页。
type Page struct {
	Links   []Link
	Entries []Entry
}

// Next 返回 rel 为 "next" 的链接。
func (p *Page) Next() (string, bool) {
	for _, l := range p.Links {
		if l.Rel == "next" {
			return l.Href, true
		}
	}
	return "", false
}

// IsDraft 判断条目是否为草稿。
func IsDraft(e Entry) (bool, error) {
	if e.Draft == nil {
		return false, &StructuralError{What: "app:control/app:draft", Entry: entryRef(e)}
	}
	return strings.TrimSpace(*e.Draft) == draftYes, nil
}

// PublishedAt 返回条目的发布时间，草稿同样返回。
func PublishedAt(e Entry) (time.Time, error) {
	raw := strings.TrimSpace(e.Published)
	if raw == "" {
		return time.Time{}, &StructuralError{What: "published", Entry: entryRef(e)}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, &ParseError{What: "published", Value: raw, Err: err}
	}
	return t, nil
}

// Identifier 返回规范 URI 的最后一段，用作输出文件名。
func Identifier(e Entry) (string, error) {
	if len(e.Links) == 0 || e.Links[0].Href == "" {
		return "", &StructuralError{What: "link", Entry: entryRef(e)}
	}
	href := e.Links[0].Href
	id := href[strings.LastIndex(href, "/")+1:]
	if id == "" {
		return "", &StructuralError{What: "link", Entry: href}
	}
	return id, nil
}

// Content 拼接标题与正文。
func Content(e Entry) string {
	return fmt.Sprintf("%s。\n\n%s", e.Title, e.Content)
}

func entryRef(e Entry) string {
	if len(e.Links) > 0 && e.Links[0].Href != "" {
		return e.Links[0].Href
	}
	return e.Title
}
