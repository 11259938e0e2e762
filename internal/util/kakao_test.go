package util

import (
	"strings"
	"testing"
)

func TestApplyKakaoSeeMorePadding(t *testing.T) {
	out := ApplyKakaoSeeMorePadding("body line", "HEADER")
	if !strings.HasPrefix(out, "HEADER") {
		t.Fatalf("header missing: %q", out[:20])
	}
	if strings.Count(out, KakaoZeroWidthSpace) != KakaoSeeMorePadding {
		t.Fatalf("padding count: %d", strings.Count(out, KakaoZeroWidthSpace))
	}
	if !strings.HasSuffix(out, "\nbody line") {
		t.Fatalf("body not preserved after padding")
	}

	if got := ApplyKakaoSeeMorePadding("   ", "HEADER"); got != "   " {
		t.Fatalf("blank text should pass through: %q", got)
	}
}

func TestTruncateWithMarker(t *testing.T) {
	if got := TruncateWithMarker("short", 10, "…"); got != "short" {
		t.Fatalf("under limit: %q", got)
	}
	if got := TruncateWithMarker("abcdefghij", 0, "…"); got != "abcdefghij" {
		t.Fatalf("limit 0 disables truncation: %q", got)
	}
	got := TruncateWithMarker("abcdefghij", 5, "…")
	if got != "abcd…" {
		t.Fatalf("got %q", got)
	}
	// rune-safe on multibyte text
	got = TruncateWithMarker(strings.Repeat("가", 10), 5, "…")
	if got != "가가가가…" {
		t.Fatalf("got %q", got)
	}
	// marker longer than the limit degrades to a clipped marker
	if got := TruncateWithMarker("abcdefghij", 2, "…(생략)"); got != "…(" {
		t.Fatalf("got %q", got)
	}
}
