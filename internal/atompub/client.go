package atompub

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iabetor/hatenaexport/internal/archive"
	"github.com/iabetor/hatenaexport/internal/logger"
)

const userAgent = "hatenaexport/1.0 AtomPub Client"

// StatusError 服务器返回了非 2xx 状态码。
type StatusError struct {
	URI  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求 %s 返回 HTTP %d", e.URI, e.Code)
}

// Client 负责获取 AtomPub 条目集合的单页内容。
type Client struct {
	creds  Credentials
	client *http.Client
}

// NewClient 创建 AtomPub 客户端。hc 为 nil 时使用带追踪的默认客户端。
// 不设置超时，沿用 transport 的默认行为。
func NewClient(creds Credentials, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{creds: creds, client: hc}
}

// FetchPage 获取并解析 uri 对应的一页。
func (c *Client) FetchPage(ctx context.Context, uri string) (*archive.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.SetBasicAuth(c.creds.Username, c.creds.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URI: uri, Code: resp.StatusCode, Body: string(body)}
	}

	page, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Debugf("[atompub] %s: %d 个条目, %d 个链接", uri, len(page.Entries), len(page.Links))
	return page, nil
}
