package compose

import (
	"bytes"
	"testing"
)

func TestNamespacedName(t *testing.T) {
	cases := []struct {
		name  string
		taken map[string]bool
		want  string
	}{
		{"free", nil, "TplF1"},
		{"taken once", map[string]bool{"TplF1": true}, "TplTplF1"},
		{"taken twice", map[string]bool{"TplF1": true, "TplTplF1": true}, "TplTplTplF1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := namespacedName("F1", tc.taken); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
			// Deterministic.
			if again := namespacedName("F1", tc.taken); again != tc.want {
				t.Fatalf("second call differs: %q", again)
			}
		})
	}
}

func TestRewriteResourceName(t *testing.T) {
	ops := []byte("BT\n/F1 10 Tf\n(x) Tj\nET\n/F1 10 Tf\n")
	got := rewriteResourceName(ops, "F1", "TplF1")
	want := []byte("BT\n/TplF1 10 Tf\n(x) Tj\nET\n/TplF1 10 Tf\n")
	if !bytes.Equal(got, want) {
		t.Fatalf("rewrite mismatch:\n%s", got)
	}
	if !bytes.Equal(rewriteResourceName(ops, "F1", "F1"), ops) {
		t.Fatalf("identity rewrite changed operators")
	}
}
