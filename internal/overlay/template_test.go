package overlay

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/galleyproof/cropmark/internal/geom"
)

// newTemplate builds a template with a deliberately missing font file, so
// tests run on the deterministic Courier fallback everywhere.
func newTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := New(filepath.Join(t.TempDir(), "missing.ttf"), geom.Trade)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return tmpl
}

func TestRenderIdempotent(t *testing.T) {
	tmpl := newTemplate(t)
	f := Footer{Timestamp: "2026-08-25 10:30:00 UTC", Filename: "draft.pdf", PageNumber: 3}
	a := tmpl.Render(f)
	b := tmpl.Render(f)
	if !bytes.Equal(a.Ops, b.Ops) {
		t.Fatalf("render is not idempotent:\n%s\n---\n%s", a.Ops, b.Ops)
	}
	if a.FontName != b.FontName {
		t.Fatalf("font name differs: %q vs %q", a.FontName, b.FontName)
	}
}

func TestRenderFooterFields(t *testing.T) {
	tmpl := newTemplate(t)
	frag := tmpl.Render(Footer{Timestamp: "2026-08-25 10:30:00 UTC", Filename: "draft.pdf", PageNumber: 7})

	if !bytes.Contains(frag.Ops, []byte("(2026-08-25 10:30:00 UTC  draft.pdf) Tj")) {
		t.Fatalf("timestamp/filename line missing:\n%s", frag.Ops)
	}
	if !bytes.Contains(frag.Ops, []byte("(7) Tj")) {
		t.Fatalf("page number missing:\n%s", frag.Ops)
	}
}

func TestRenderPageNumberRightAligned(t *testing.T) {
	tmpl := newTemplate(t)
	frag := tmpl.Render(Footer{Timestamp: "T", Filename: "f.pdf", PageNumber: 42})

	width := 2 * tmpl.Font().CharWidth(footerFontSize)
	want := fmt.Sprintf("%.2f %.2f Td", geom.A4.Width-footerMargin-width, footerMargin)
	if !bytes.Contains(frag.Ops, []byte(want)) {
		t.Fatalf("expected right-aligned position %q in:\n%s", want, frag.Ops)
	}
}

func TestRenderCropMarks(t *testing.T) {
	tmpl := newTemplate(t)
	frag := tmpl.Render(Footer{Timestamp: "T", Filename: "f.pdf", PageNumber: 1})

	if !bytes.Contains(frag.Ops, []byte("0.5 w")) {
		t.Fatalf("stroke width missing:\n%s", frag.Ops)
	}
	if got := bytes.Count(frag.Ops, []byte("\nS\n")); got != 8 {
		t.Fatalf("expected 8 crop-mark strokes, got %d", got)
	}

	// Marks sit clear of the trim rectangle: the leftmost mark starts
	// markOffset+markLength left of the trim edge.
	trimLeft := (geom.A4.Width - geom.Trade.Width) / 2
	want := fmt.Sprintf("%.2f", trimLeft-markOffset-markLength)
	if !bytes.Contains(frag.Ops, []byte(want)) {
		t.Fatalf("expected mark coordinate %s in:\n%s", want, frag.Ops)
	}
}

func TestRenderEscapesFilename(t *testing.T) {
	tmpl := newTemplate(t)
	frag := tmpl.Render(Footer{Timestamp: "T", Filename: `dra(ft)\.pdf`, PageNumber: 1})
	if !bytes.Contains(frag.Ops, []byte(`dra\(ft\)\\.pdf`)) {
		t.Fatalf("filename not escaped:\n%s", frag.Ops)
	}
}

func TestNewRejectsOversizedTrim(t *testing.T) {
	_, err := New("unused.ttf", geom.Size{Width: 700, Height: 900})
	if err == nil {
		t.Fatalf("expected error for trim larger than sheet")
	}
}

func TestFontFallback(t *testing.T) {
	tmpl := newTemplate(t)
	if got := tmpl.Font().Name(); got != "Courier" {
		t.Fatalf("expected Courier fallback, got %q", got)
	}
	if w := tmpl.Font().CharWidth(10); w != 6 {
		t.Fatalf("unexpected Courier advance at 10pt: %v", w)
	}
}

func TestLoadFooterFontMissing(t *testing.T) {
	_, err := LoadFooterFont(filepath.Join(t.TempDir(), "nope.ttf"))
	if err == nil {
		t.Fatalf("expected error for missing font file")
	}
}
