package atompub

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// EnvAPIKey 保存 AtomPub API 密钥的环境变量。
const EnvAPIKey = "HATENA_BLOG_ATOMPUB_KEY"

// Credentials Basic 认证所需的用户名与 API 密钥。
type Credentials struct {
	Username string
	APIKey   string
}

// LoadCredentials 返回认证信息。apiKey 为空时读取环境变量 EnvAPIKey。
func LoadCredentials(username, apiKey string) (Credentials, error) {
	if username == "" {
		return Credentials{}, fmt.Errorf("未设置 Hatena 用户名")
	}
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if key == "" {
		return Credentials{}, fmt.Errorf("请在环境变量 `%s` 中设置 AtomPub 的 API 密钥", EnvAPIKey)
	}
	return Credentials{Username: username, APIKey: key}, nil
}

// EntriesURL 返回博客条目集合的端点。
func EntriesURL(username, blogID string) string {
	return fmt.Sprintf("https://blog.hatena.ne.jp/%s/%s/atom/entry",
		url.PathEscape(username), url.PathEscape(blogID))
}
