package quiz

import "testing"

func TestSanitizePassesPlainTextThrough(t *testing.T) {
	t.Parallel()

	if got := Sanitize("What is the capital of Iceland?"); got != "What is the capital of Iceland?" {
		t.Fatalf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitizeTrimsSurroundingWhitespace(t *testing.T) {
	t.Parallel()

	if got := Sanitize("  My Title  "); got != "My Title" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
}

func TestSanitizeDropsScriptSubtrees(t *testing.T) {
	t.Parallel()

	got := Sanitize("Before<script>alert('x')</script>After")
	if got != "BeforeAfter" {
		t.Fatalf("expected script subtree removed, got %q", got)
	}
}

func TestSanitizeStripsTagsButKeepsText(t *testing.T) {
	t.Parallel()

	if got := Sanitize("<b>Bold</b> move"); got != "Bold move" {
		t.Fatalf("expected tags stripped, got %q", got)
	}
}

func TestSanitizeEscapesSpecialCharacters(t *testing.T) {
	t.Parallel()

	if got := Sanitize("Tom & Jerry"); got != "Tom &amp; Jerry" {
		t.Fatalf("expected ampersand escaped, got %q", got)
	}

	if got := Sanitize("It's fine"); got != "It&#39;s fine" {
		t.Fatalf("expected apostrophe escaped, got %q", got)
	}
}

func TestSanitizeDropsStyleAndIframeContent(t *testing.T) {
	t.Parallel()

	got := Sanitize("a<style>body{color:red}</style>b<iframe src=x>evil</iframe>c")
	if got != "abc" {
		t.Fatalf("expected style and iframe content removed, got %q", got)
	}
}
