package pipeline

// Notes:
// - NFC cases use explicit escape sequences so the source file itself
//   cannot be silently normalized by an editor
// - SplitLines only normalizes line endings; whitespace cleanup is
//   PrepareLines' job and is tested there

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestSplitLines
// ---------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single line", "hello", []string{"hello"}},
		{"trailing newline dropped", "a\nb\n", []string{"a", "b"}},
		{"only one trailing newline dropped", "a\n\n", []string{"a", ""}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
		{"lone cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitLines(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitLines(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrepareLines
// ---------------------------------------------------------------------------

func TestPrepareLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lines     []string
		normalize bool
		want      []string
	}{
		{
			name:  "trailing whitespace stripped",
			lines: []string{"text  ", "more\t", "\r"},
			want:  []string{"text", "more", ""},
		},
		{
			name:  "tab expands to four spaces",
			lines: []string{"\tcode", "a\tb"},
			want:  []string{"    code", "a    b"},
		},
		{
			name:  "leading spaces kept",
			lines: []string{"   * item"},
			want:  []string{"   * item"},
		},
		{
			name:      "decomposed text composed",
			lines:     []string{"cafe\u0301"},
			normalize: true,
			want:      []string{"caf\u00e9"},
		},
		{
			name:      "normalization disabled",
			lines:     []string{"cafe\u0301"},
			normalize: false,
			want:      []string{"cafe\u0301"},
		},
		{
			name:  "empty input",
			lines: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := PrepareLines(tt.lines, tt.normalize)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PrepareLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrepareLines_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := []string{"a\t", "b  "}
	PrepareLines(in, true)

	if in[0] != "a\t" || in[1] != "b  " {
		t.Errorf("input modified: %q", in)
	}
}

// ---------------------------------------------------------------------------
// TestDetectOrgMode
// ---------------------------------------------------------------------------

func TestDetectOrgMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"marker alone", []string{"-*- mode: org -*-"}, true},
		{"marker inside line", []string{"# -*- mode: org -*-", "text"}, true},
		{"marker on second line", []string{"title", "-*- mode: org -*-"}, false},
		{"no marker", []string{"plain"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DetectOrgMode(tt.lines); got != tt.want {
				t.Errorf("DetectOrgMode(%q) = %v, want %v", tt.lines, got, tt.want)
			}
		})
	}
}
