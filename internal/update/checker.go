// Package update 查询 GitHub 上的最新发布版本。
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Zacy-Sokach/TrollShield/internal/utils"
	"github.com/tidwall/gjson"
)

const (
	RepoOwner = "Zacy-Sokach"
	RepoName  = "TrollShield"
	Repo      = RepoOwner + "/" + RepoName

	defaultBaseURL = "https://api.github.com"
)

// ErrNotComparable 当前版本不是 v1.2.3 形式（例如开发构建的 dev），无法与发布版本比较
var ErrNotComparable = errors.New("当前版本不是发布版本，无法比较")

type ReleaseInfo struct {
	TagName string
	HTMLURL string
}

type Checker struct {
	baseURL string
	client  utils.Doer
}

// CheckerOption 配置 Checker
type CheckerOption func(*Checker)

// WithBaseURL 替换 GitHub API 地址
func WithBaseURL(url string) CheckerOption {
	return func(c *Checker) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithDoer 替换 HTTP 客户端
func WithDoer(d utils.Doer) CheckerOption {
	return func(c *Checker) {
		c.client = d
	}
}

func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) LatestRelease(ctx context.Context) (ReleaseInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("获取最新版本失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ReleaseInfo{}, fmt.Errorf("GitHub API 返回状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("读取响应失败: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return ReleaseInfo{}, fmt.Errorf("无效的响应 JSON")
	}

	result := gjson.GetManyBytes(body, "tag_name", "html_url")
	if result[0].String() == "" {
		return ReleaseInfo{}, fmt.Errorf("响应中没有 tag_name")
	}
	return ReleaseInfo{TagName: result[0].String(), HTMLURL: result[1].String()}, nil
}

// CheckForUpdate 返回是否有新版本以及最新发布。
// currentVersion 不是发布版本时仍返回最新发布，错误为 ErrNotComparable。
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string) (bool, ReleaseInfo, error) {
	latest, err := c.LatestRelease(ctx)
	if err != nil {
		return false, ReleaseInfo{}, err
	}
	if !IsRelease(currentVersion) {
		return false, latest, ErrNotComparable
	}
	return compareVersions(currentVersion, latest.TagName) < 0, latest, nil
}

// IsRelease 版本号是否以数字开头（允许前缀 v）
func IsRelease(version string) bool {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	return v != "" && v[0] >= '0' && v[0] <= '9'
}

// compareVersions 比较 v1.2.3 形式的版本号，忽略 -rc 之类的后缀
func compareVersions(v1, v2 string) int {
	parts1 := versionParts(v1)
	parts2 := versionParts(v2)

	for i := 0; i < len(parts1) || i < len(parts2); i++ {
		var p1, p2 int
		if i < len(parts1) {
			p1 = parts1[i]
		}
		if i < len(parts2) {
			p2 = parts2[i]
		}
		if p1 < p2 {
			return -1
		}
		if p1 > p2 {
			return 1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil
	}

	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		fmt.Sscanf(f, "%d", &parts[i])
	}
	return parts
}
