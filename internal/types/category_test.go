package types

import "testing"

func TestNormalizeCategoryName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ion channel", "Ion Channel"},
		{"  ION   CHANNEL  ", "Ion Channel"},
		{"tumor suppressor", "Tumor Suppressor"},
		{"Kinase", "Kinase"},
		{"", ""},
		{"   ", ""},
		{"dna-repair enzyme", "Dna-repair Enzyme"},
	}
	for _, tc := range cases {
		if got := NormalizeCategoryName(tc.in); got != tc.want {
			t.Fatalf("NormalizeCategoryName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  tp53 "); got != "TP53" {
		t.Fatalf("NormalizeSymbol: %q", got)
	}
	if got := NormalizeSymbol(""); got != "" {
		t.Fatalf("NormalizeSymbol(empty): %q", got)
	}
}
