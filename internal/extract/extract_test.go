package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	nurl "net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>新聞標題</title><script>var tracking = 1;</script></head>
<body>
<nav><a href="/">首頁</a></nav>
<article>
<h1>某公司宣布裁員</h1>
<p>某公司今天宣布將裁員百分之十，執行長表示這是為了提升效率。這項決定引起了員工的強烈不滿，許多人在社群媒體上表達憤怒。</p>
<p>分析師認為，這次裁員反映了產業整體的困境，未來可能還會有更多公司跟進。公司股價在消息公布後上漲了百分之三。</p>
<p>工會代表表示將會與公司進行協商，爭取被裁員工的權益，並要求公司提供合理的資遣費與轉職協助。</p>
</article>
</body></html>`

func TestExtractLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(articleHTML), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := NewSource(path).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(text, "裁員百分之十") {
		t.Errorf("article text missing: %q", text)
	}
	if strings.Contains(text, "tracking") {
		t.Errorf("script content leaked: %q", text)
	}
}

func TestExtractURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	text, err := NewSource(server.URL + "/news/1").Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(text, "工會代表") {
		t.Errorf("article text missing: %q", text)
	}
}

func TestExtractURLNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := NewSource(server.URL).Extract(context.Background()); err == nil {
		t.Error("expected error for 404 page")
	}
}

func TestExtractStdin(t *testing.T) {
	s := NewSource("-")
	s.stdin = strings.NewReader("<html><body><p>短短一句話</p></body></html>")

	text, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(text, "短短一句話") {
		t.Errorf("text = %q", text)
	}
}

func TestTextContentEmptyPage(t *testing.T) {
	pageURL := &nurl.URL{Scheme: "file", Path: "/empty.html"}
	_, err := TextContent([]byte("<html><body><script>x()</script></body></html>"), pageURL)
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := NewSource(filepath.Join(t.TempDir(), "nope.html")).Extract(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
