package testutil

import (
	"bytes"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Context parses generated document bytes the same way the CLI parses real
// input.
func Context(t *testing.T, b []byte) *model.Context {
	t.Helper()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(b), conf)
	if err != nil {
		t.Fatalf("failed to parse generated document: %v", err)
	}
	return ctx
}
