package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CROPMARK_FONT", "")
	t.Setenv("CROPMARK_WORKERS", "")

	// Unset values fall back to defaults; empty strings are set values for
	// the font path but invalid for workers.
	s := Load()
	if s.FontPath != "" {
		t.Fatalf("expected empty override to win, got %q", s.FontPath)
	}
	if s.Workers != defaultWorkers {
		t.Fatalf("expected default workers, got %d", s.Workers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CROPMARK_FONT", "/tmp/custom.ttf")
	t.Setenv("CROPMARK_WORKERS", "8")

	s := Load()
	if s.FontPath != "/tmp/custom.ttf" {
		t.Fatalf("unexpected font path: %q", s.FontPath)
	}
	if s.Workers != 8 {
		t.Fatalf("unexpected workers: %d", s.Workers)
	}
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	for _, v := range []string{"0", "-2", "lots"} {
		t.Setenv("CROPMARK_WORKERS", v)
		if s := Load(); s.Workers != defaultWorkers {
			t.Fatalf("workers=%q: expected default, got %d", v, s.Workers)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CROPMARK_TEST_KEY", "value")
	if got := GetEnv("CROPMARK_TEST_KEY", "fallback"); got != "value" {
		t.Fatalf("expected set value, got %q", got)
	}
	if got := GetEnv("CROPMARK_TEST_KEY_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
