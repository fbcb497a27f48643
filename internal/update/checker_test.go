package update

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v1.0.0", "v1.0.0", 0},
		{"1.0.0", "v1.0.1", -1},
		{"v1.2.0", "v1.10.0", -1},
		{"v2.0.0", "v1.9.9", 1},
		{"v1.0", "v1.0.0", 0},
		{"v1.0.0-rc1", "v1.0.0", 0},
		{"dev", "v0.1.0", -1},
	}

	for _, tt := range tests {
		if got := compareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func TestCheckForUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/"+Repo+"/releases/latest" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"tag_name":"v1.2.0","html_url":"https://github.com/Zacy-Sokach/TrollShield/releases/tag/v1.2.0"}`)
	}))
	defer server.Close()

	c := NewChecker(WithBaseURL(server.URL+"/"), WithDoer(server.Client()))

	hasUpdate, latest, err := c.CheckForUpdate(context.Background(), "v1.1.3")
	if err != nil {
		t.Fatalf("CheckForUpdate failed: %v", err)
	}
	if !hasUpdate || latest.TagName != "v1.2.0" {
		t.Errorf("hasUpdate = %v, latest = %+v", hasUpdate, latest)
	}
	if latest.HTMLURL == "" {
		t.Error("html_url should be parsed")
	}

	hasUpdate, _, err = c.CheckForUpdate(context.Background(), "v1.2.0")
	if err != nil || hasUpdate {
		t.Errorf("same version: hasUpdate = %v, err = %v", hasUpdate, err)
	}

	hasUpdate, latest, err = c.CheckForUpdate(context.Background(), "dev")
	if !errors.Is(err, ErrNotComparable) {
		t.Errorf("dev build: err = %v, want ErrNotComparable", err)
	}
	if hasUpdate || latest.TagName != "v1.2.0" {
		t.Errorf("dev build: hasUpdate = %v, latest = %+v", hasUpdate, latest)
	}
}

func TestIsRelease(t *testing.T) {
	tests := map[string]bool{
		"v1.2.3":     true,
		"1.0":        true,
		"v0.1.0-rc1": true,
		"dev":        false,
		"":           false,
		"v":          false,
	}
	for version, want := range tests {
		if got := IsRelease(version); got != want {
			t.Errorf("IsRelease(%q) = %v, want %v", version, got, want)
		}
	}
}

func TestLatestReleaseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusForbidden, `{"message":"rate limited"}`},
		{"invalid json", http.StatusOK, `{"tag_name":`},
		{"missing tag", http.StatusOK, `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			c := NewChecker(WithBaseURL(server.URL), WithDoer(server.Client()))
			if _, err := c.LatestRelease(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}
