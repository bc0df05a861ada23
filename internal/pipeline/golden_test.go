package pipeline

// Notes:
// - Golden files are compared byte for byte; run with -update to rewrite
//   them after an intentional output change, then review the diff
// - The tree checks parse the same output with x/net/html and query it with
//   cascadia, so they survive whitespace-only layout changes

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata")

// convertText runs the full pipeline the way the public API does.
func convertText(text string, escape bool) (string, *Document) {
	lines := PrepareLines(SplitLines(text), true)
	doc := Segment(lines, DetectOrgMode(lines))
	return Render(doc, escape), doc
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestGolden
// ---------------------------------------------------------------------------

func TestGolden(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"reference", "org"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, doc := convertText(readFixture(t, name+".kiwi"), true)
			if len(doc.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", doc.Warnings)
			}

			golden := filepath.Join("testdata", name+".html")
			if *update {
				if err := os.WriteFile(golden, []byte(got), 0o644); err != nil {
					t.Fatalf("writing golden file: %v", err)
				}
				return
			}

			want := readFixture(t, name+".html")
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", golden, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestReferenceTree - structure of the rendered reference document
// ---------------------------------------------------------------------------

func TestReferenceTree(t *testing.T) {
	t.Parallel()

	out, _ := convertText(readFixture(t, "reference.kiwi"), true)
	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}

	tests := []struct {
		selector string
		want     int
	}{
		{"h1", 1},
		{"h2", 3},
		{"body > ul > li", 3},
		{"ul > li > ul > li", 2},
		{"table tr", 3},
		{"table th", 2},
		{"table td", 4},
		{"td > img.icon", 1},
		{"pre > code.language-go", 1},
		{"hr", 1},
		{`a[href="#footnote_target_1"] > sup`, 1},
		{"p.footnote#footnote_target_1", 1},
		{"b", 1},
		{"i", 1},
	}

	for _, tt := range tests {
		sel, err := cascadia.Parse(tt.selector)
		if err != nil {
			t.Fatalf("bad selector %q: %v", tt.selector, err)
		}
		if got := len(cascadia.QueryAll(doc, sel)); got != tt.want {
			t.Errorf("%q matched %d nodes, want %d", tt.selector, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestConvertText_Properties
// ---------------------------------------------------------------------------

func TestConvertText_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text is one paragraph",
			in:   "just some words",
			want: "<p>\njust some words\n</p>\n",
		},
		{
			name: "empty input is empty output",
			in:   "",
			want: "",
		},
		{
			name: "glued bold stays literal",
			in:   "word**bold**word",
			want: "<p>\nword**bold**word\n</p>\n",
		},
		{
			name: "bold before period",
			in:   "word **bold**.",
			want: "<p>\nword <b>bold</b>.\n</p>\n",
		},
		{
			name: "crlf input",
			in:   "# Title\r\n\r\ntext\r\n",
			want: "<h1>Title</h1>\n<p>\ntext\n</p>\n",
		},
		{
			name: "org marker disables bold for the whole document",
			in:   "-*- mode: org -*-\n\n**x**",
			want: "<p>\n-*- mode: org -*-\n</p>\n<p>\n**x**\n</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got, _ := convertText(tt.in, true); got != tt.want {
				t.Errorf("convert(%q) =\n%q\nwant\n%q", tt.in, got, tt.want)
			}
		})
	}
}
