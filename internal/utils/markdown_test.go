package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("**bold** and `code`")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("bold not rendered: %q", html)
	}
	if !strings.Contains(html, "<code>code</code>") {
		t.Errorf("code not rendered: %q", html)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script>")
	if strings.Contains(html, "<script>") {
		t.Errorf("script survived sanitization: %q", html)
	}
}

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42"); got != 42 {
		t.Errorf("got %d", got)
	}
	if got := StringToInt("not a number"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
