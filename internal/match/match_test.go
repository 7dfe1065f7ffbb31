package match

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"abc", "abd", 1},
		{"abc", "acb", 2},
	}

	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"function calculateSum(a, b) {", "function calcSum(a, b) {"},
		{"hello world", "world hello"},
		{"x", "xyz"},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Identical(t *testing.T) {
	if got := Similarity("return a + b;", "return a + b;"); got != 1.0 {
		t.Errorf("Similarity identical = %f, want 1.0", got)
	}
}

func TestSimilarity_BothEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(\"\", \"\") = %f, want 1.0", got)
	}
}

func TestSimilarity_OneEmpty(t *testing.T) {
	if got := Similarity("", "abc"); got != 0 {
		t.Errorf("Similarity(\"\", \"abc\") = %f, want 0", got)
	}
	if got := Similarity("abc", ""); got != 0 {
		t.Errorf("Similarity(\"abc\", \"\") = %f, want 0", got)
	}
}

func TestSimilarity_Partial(t *testing.T) {
	// Distance("abcd", "abxd") = 1, max len 4 -> 0.75
	got := Similarity("abcd", "abxd")
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Similarity(\"abcd\", \"abxd\") = %f, want 0.75", got)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"completely different", "zzzzzzz"},
		{"a", "bbbbbbbbbbbbbbbbbbbb"},
		{"same", "same"},
	}

	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %f, out of [0,1]", p[0], p[1], got)
		}
	}
}
