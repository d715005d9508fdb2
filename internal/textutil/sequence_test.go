package textutil

import (
	"math"
	"strings"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		matches int
		want    float64
	}{
		{"both empty", "", "", 0, 1},
		{"one empty", "abc", "", 0, 0},
		{"identical", "What is 2+2?", "What is 2+2?", 12, 1},
		{"shifted", "abcd", "bcde", 3, 0.75},
		{"transposed letters", "What si 2+2?", "What is 2+2?", 11, 11.0 / 12.0},
		{"cjk insertion", "下列哪项是正确的安全操作", "下列哪一项是正确的安全操作规程", 12, 24.0 / 27.0},
		{"crossing blocks", "bcbccb", "bbaccdbc", 2, 4.0 / 14.0},
		{"crossing blocks reversed", "bccbcb", "cbdccabb", 5, 10.0 / 14.0},
		{"swap", "ab", "ba", 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.a, tt.b)
			if got := m.Matches(); got != tt.matches {
				t.Fatalf("Matches() = %d, want %d", got, tt.matches)
			}
			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioPopularElements(t *testing.T) {
	// b is long enough that both runes are popular; only edge extension
	// can contribute a match.
	a := strings.Repeat("a", 10) + strings.Repeat("b", 10)
	b := strings.Repeat("ab", 150)
	if got := NewMatcher(a, b).Matches(); got != 1 {
		t.Fatalf("Matches() = %d, want 1", got)
	}

	// Seeded by non-popular runes, then extended across popular ones.
	a = "xyz" + strings.Repeat("a", 5)
	b = "xyz" + strings.Repeat("a", 300)
	if got := NewMatcher(a, b).Matches(); got != 8 {
		t.Fatalf("Matches() = %d, want 8", got)
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"hello", "world"},
		{"短文本", "完全不同的长文本内容"},
		{"x", strings.Repeat("x", 250)},
	}
	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("Ratio(%q, %q) = %v out of [0,1]", p[0], p[1], got)
		}
	}
}
