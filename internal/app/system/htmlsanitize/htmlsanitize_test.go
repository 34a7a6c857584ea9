package htmlsanitize_test

import (
	"testing"

	"github.com/ramaalshaban/dashboard/internal/app/system/htmlsanitize"
)

func TestText_Empty(t *testing.T) {
	if got := htmlsanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_PlainText(t *testing.T) {
	if got := htmlsanitize.Text("Hello, World!"); got != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestText_StripsTags(t *testing.T) {
	got := htmlsanitize.Text("<b>Ada</b> <script>alert('x')</script>Lovelace")
	if got != "Ada Lovelace" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestText_KeepsAmpersands(t *testing.T) {
	if got := htmlsanitize.Text("R&D"); got != "R&D" {
		t.Errorf("expected %q, got %q", "R&D", got)
	}
}

func TestTextOr_Fallback(t *testing.T) {
	if got := htmlsanitize.TextOr("<i></i>", "Untitled Project"); got != "Untitled Project" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := htmlsanitize.TextOr("alpha", "Untitled Project"); got != "alpha" {
		t.Errorf("expected value, got %q", got)
	}
}
