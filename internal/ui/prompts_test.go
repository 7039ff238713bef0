package ui

import (
	"io"
	"strings"
	"testing"
)

func TestPromptYesNoAnswers(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"yes word", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"no word", "No\n", true, false},
		{"empty takes default", "\n", true, true},
		{"empty takes default no", "\n", false, false},
		{"garbage takes default", "maybe\n", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := promptYesNo("Delete?", tt.defaultYes, true, strings.NewReader(tt.input), io.Discard)
			if got != tt.want {
				t.Errorf("promptYesNo(%q, default=%t) = %t, want %t", tt.input, tt.defaultYes, got, tt.want)
			}
		})
	}
}

func TestPromptYesNoNonInteractive(t *testing.T) {
	// No read from stdin at all; the default comes straight back.
	var out strings.Builder
	got := promptYesNo("Delete?", false, false, failingReader{}, &out)
	if got != false {
		t.Error("non-interactive prompt did not take the default")
	}
	if !strings.Contains(out.String(), "non-interactive") {
		t.Errorf("output = %q, want non-interactive notice", out.String())
	}
}

func TestPromptYesNoReadError(t *testing.T) {
	if got := promptYesNo("Delete?", true, true, failingReader{}, io.Discard); got != true {
		t.Error("read error did not take the default")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
