package render

import (
	"regexp"
	"strings"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes terminal styling so assertions see contiguous text
func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestMarkdownWithWidth(t *testing.T) {
	out, err := MarkdownWithWidth("Hello **world**", 60)
	if err != nil {
		t.Fatalf("MarkdownWithWidth() error = %v", err)
	}
	if !strings.Contains(out, "world") {
		t.Errorf("output %q does not contain rendered text", out)
	}
}

func TestMarkdownRendersCitationBadges(t *testing.T) {
	out, err := Markdown("Revenue grew [ref:report.pdf|4].", DefaultOptions())
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	plain := stripANSI(out)
	if !strings.Contains(plain, "report.pdf") {
		t.Errorf("output %q lost the citation badge", plain)
	}
	if strings.Contains(plain, "[ref:") {
		t.Errorf("output %q still contains raw citation markup", plain)
	}
}

func TestMarkdownCitationsDisabled(t *testing.T) {
	out, err := Markdown("see [ref:report.pdf|4]", DefaultOptions().WithCitations(false))
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if !strings.Contains(stripANSI(out), "[ref:report.pdf|4]") {
		t.Errorf("output %q should keep raw markup when badges are disabled", out)
	}
}

func TestRendererPoolReuse(t *testing.T) {
	ClearCache()
	opts := DefaultOptions().WithWidth(42)

	for i := 0; i < 3; i++ {
		if _, err := Markdown("test", opts); err != nil {
			t.Fatalf("Markdown() error = %v", err)
		}
	}
	if len(globalPool.pools) != 1 {
		t.Errorf("pool count = %d, want 1 for identical options", len(globalPool.pools))
	}
}
