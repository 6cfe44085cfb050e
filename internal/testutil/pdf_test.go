package testutil

import "testing"

func TestGeneratedDocumentParses(t *testing.T) {
	b := PDF([]Page{
		{Width: 432, Height: 648, Content: "% first"},
		{Width: 432, Height: 648, Content: "% second"},
	}, map[string]string{"Title": "Generated"})

	ctx := Context(t, b)
	if err := ctx.EnsurePageCount(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ctx.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", ctx.PageCount)
	}
	if ctx.Info == nil {
		t.Fatalf("expected information dictionary")
	}
}

func TestGeneratedEmptyDocumentParses(t *testing.T) {
	ctx := Context(t, PDF(nil, nil))
	if err := ctx.EnsurePageCount(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ctx.PageCount != 0 {
		t.Fatalf("expected 0 pages, got %d", ctx.PageCount)
	}
}
