package docstore

import (
	"strings"
	"testing"
)

func TestSplitTextShortTextStaysWhole(t *testing.T) {
	got := SplitText("short text", 100, 20)
	if len(got) != 1 || got[0] != "short text" {
		t.Fatalf("expected single whole chunk, got %v", got)
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if got := SplitText("", 100, 20); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestSplitTextWindowsOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes
	got := SplitText(text, 40, 10)

	if len(got) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(got))
	}
	for i, c := range got[:len(got)-1] {
		if len([]rune(c)) != 40 {
			t.Fatalf("chunk %d: expected 40 runes, got %d", i, len([]rune(c)))
		}
	}
	// consecutive windows share the overlap region
	first := []rune(got[0])
	second := []rune(got[1])
	if string(first[30:]) != string(second[:10]) {
		t.Fatalf("expected 10-rune overlap between chunks, got %q vs %q", string(first[30:]), string(second[:10]))
	}
}

func TestSplitTextCoversWholeText(t *testing.T) {
	text := strings.Repeat("x", 95)
	got := SplitText(text, 40, 10)
	last := got[len(got)-1]
	if !strings.HasSuffix(text, last) {
		t.Fatalf("last chunk %q is not a suffix of the input", last)
	}
	total := 0
	for _, c := range got {
		total += len([]rune(c))
	}
	if total < len([]rune(text)) {
		t.Fatalf("chunks cover %d runes, input has %d", total, len([]rune(text)))
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	for _, c := range SplitText(text, 30, 5) {
		if !strings.Contains(text, c) {
			t.Fatalf("chunk %q split mid-character", c)
		}
	}
}
