package textnorm

import (
	"strings"
	"testing"
)

func TestNormalizeCleansPageText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"hyphen break rejoined", "deep-\nfake detection improves", "deepfake detection improves"},
		{"newlines collapsed", "one\ntwo\n\nthree", "one two three"},
		{"arxiv stamp stripped", "arXiv:2101.00001v2 Deep results", "Deep results"},
		{"page footer stripped", "Page 3/7 methods", "methods"},
		{"numeric page stripped", "12345", ""},
		{"separator run stripped", "results ===== discussion", "results discussion"},
		{"citations stripped", "as shown [12] and [1-3] before", "as shown and before"},
		{"fullwidth folded", "ＡＢＣ test", "ABC test"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNormalizeStripsMathNotation(t *testing.T) {
	out := Normalize("we have E = mc^2, so energy")
	if out != "so energy" {
		t.Fatalf("equation not stripped: %q", out)
	}
	out = Normalize("apply sin and cos to 2^10 or 3/4 here")
	for _, frag := range []string{"sin", "cos", "2^10", "3/4"} {
		if strings.Contains(out, frag) {
			t.Fatalf("expected %q stripped, got %q", frag, out)
		}
	}
	if !strings.Contains(out, "here") {
		t.Fatalf("surrounding prose lost: %q", out)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Intro-\nduction\n\n42\n$x+y$ see [3], Fig. 2 ----- done",
		"αβ coefficients ≈ 0.5 with x_i and y^2",
		"plain prose stays as it is",
		" , leading punctuation",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeNoiseOnlyPageBecomesEmpty(t *testing.T) {
	if out := Normalize("arXiv:1234.5678\n7\n-----"); out != "" {
		t.Fatalf("expected empty page, got %q", out)
	}
}
