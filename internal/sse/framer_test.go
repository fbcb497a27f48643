package sse

import (
	"strings"
	"testing"
)

func feedAll(f *Framer, chunks [][]byte) []string {
	var lines []string
	for _, c := range chunks {
		lines = append(lines, f.Feed(c)...)
	}
	return lines
}

func TestFramerSplitBoundaryInvariance(t *testing.T) {
	input := "data: 你好\n\ndata: {\"x\":\"é😀\"}\nheartbeat\ndata: 未完"
	want := strings.Split(input, "\n")
	want = want[:len(want)-1]
	raw := []byte(input)

	for i := 0; i <= len(raw); i++ {
		for j := i; j <= len(raw); j++ {
			f := NewFramer()
			got := feedAll(f, [][]byte{raw[:i], raw[i:j], raw[j:]})

			if strings.Join(got, "\n") != strings.Join(want, "\n") || len(got) != len(want) {
				t.Fatalf("split (%d,%d): got %q, want %q", i, j, got, want)
			}
			if f.Pending() != "data: 未完" {
				t.Fatalf("split (%d,%d): pending = %q", i, j, f.Pending())
			}
		}
	}
}

func TestFramerOneByteAtATime(t *testing.T) {
	input := "第一行\n第二行\n"
	f := NewFramer()

	var got []string
	for _, b := range []byte(input) {
		got = append(got, f.Feed([]byte{b})...)
	}

	if len(got) != 2 || got[0] != "第一行" || got[1] != "第二行" {
		t.Errorf("got %q", got)
	}
	if f.Pending() != "" {
		t.Errorf("pending should be empty, got %q", f.Pending())
	}
}

func TestFramerCloseDiscardsTrailingLine(t *testing.T) {
	f := NewFramer()
	lines := f.Feed([]byte("data: a\ndata: {\"delta\":{\"content\":\"lost\"}}"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 complete line, got %q", lines)
	}

	tail := f.Close()
	if tail != `data: {"delta":{"content":"lost"}}` {
		t.Errorf("Close returned %q", tail)
	}
	if f.Pending() != "" {
		t.Errorf("pending not reset: %q", f.Pending())
	}
}

func TestFramerInvalidBytesAreReplaced(t *testing.T) {
	f := NewFramer()
	lines := f.Feed([]byte{'a', 0xff, 'b', '\n'})
	if len(lines) != 1 || lines[0] != "a�b" {
		t.Errorf("got %q", lines)
	}
}

func TestFramerEmptyChunk(t *testing.T) {
	f := NewFramer()
	if lines := f.Feed(nil); len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}
