package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("loaded %d rows", 3)
	if got != "loaded 3 rows" {
		t.Errorf("custom logger got %q, want %q", got, "loaded 3 rows")
	}

	// nil installs a no-op; the previous logger must not be called
	got = ""
	SetLogger(nil)
	Logf("ignored")
	if got != "" {
		t.Errorf("no-op logger forwarded message %q", got)
	}
}

func TestMute(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	calls := 0
	SetLogger(func(string, ...interface{}) { calls++ })

	restore := Mute()
	Logf("muted")
	if calls != 0 {
		t.Fatalf("calls while muted = %d, want 0", calls)
	}

	restore()
	Logf("restored")
	if calls != 1 {
		t.Errorf("calls after restore = %d, want 1", calls)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
