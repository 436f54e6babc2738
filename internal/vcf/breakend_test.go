package vcf

import (
	"errors"
	"testing"
)

func TestParseBreakend_Forms(t *testing.T) {
	tests := []struct {
		token string
		want  Breakend
	}{
		{"A[9:84326899[", Breakend{MateChrom: "9", MatePos: 84326899, AnchorBefore: true, Insert: "A"}},
		{"T]13:123456]", Breakend{MateChrom: "13", MatePos: 123456, AnchorBefore: true, MateReverse: true, Insert: "T"}},
		{"]13:123456]AGTNNNNNCAT", Breakend{MateChrom: "13", MatePos: 123456, MateReverse: true, Insert: "AGTNNNNNCAT"}},
		{"[17:198983[A", Breakend{MateChrom: "17", MatePos: 198983, Insert: "A"}},
		// Mate chromosome names may contain colons; the position is
		// everything after the last one.
		{"G]HLA-DRB1*10:01:01:9785]", Breakend{MateChrom: "HLA-DRB1*10:01:01", MatePos: 9785, AnchorBefore: true, MateReverse: true, Insert: "G"}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			b, err := ParseBreakend(tt.token)
			if err != nil {
				t.Fatalf("ParseBreakend failed: %v", err)
			}
			if *b != tt.want {
				t.Errorf("got %+v, want %+v", *b, tt.want)
			}
			if b.String() != tt.token {
				t.Errorf("String() = %q, want round-trip %q", b.String(), tt.token)
			}
		})
	}
}

func TestParseBreakend_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"unterminated bracket", "A[9:84326899"},
		{"mismatched brackets", "A[9:84326899]"},
		{"no anchored sequence", "[9:84326899["},
		{"no mate position", "A[9["},
		{"zero mate position", "A[9:0["},
		{"text mate position", "A[9:eight["},
		{"empty mate chrom", "A[:100["},
		{"non-base anchor", "Q[9:100["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBreakend(tt.token)
			var ib *InvalidBreakendError
			if !errors.As(err, &ib) {
				t.Fatalf("got %v, want InvalidBreakendError", err)
			}
			if ib.Token != tt.token {
				t.Errorf("error token = %q, want %q", ib.Token, tt.token)
			}
		})
	}
}

func TestIsBreakendAlt(t *testing.T) {
	if !IsBreakendAlt("A[9:100[") || !IsBreakendAlt("]9:100]A") {
		t.Error("bracket tokens not detected")
	}
	if IsBreakendAlt("ACGT") || IsBreakendAlt("<DEL>") || IsBreakendAlt(".") {
		t.Error("non-bracket tokens detected as breakends")
	}
}

func TestBreakend_SameOrientation(t *testing.T) {
	parse := func(tok string) *Breakend {
		b, err := ParseBreakend(tok)
		if err != nil {
			t.Fatalf("ParseBreakend(%q) failed: %v", tok, err)
		}
		return b
	}

	a := parse("A[9:84326899[")
	b := parse("T[9:84326970[")
	if !a.SameOrientation(b) {
		t.Error("two t[p[ breakends should share an orientation")
	}
	if a.SameOrientation(parse("]9:84326899]A")) {
		t.Error("t[p[ and ]p]t are different orientations")
	}
}

func TestBreakend_ReciprocalOf(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		// The canonical mate pairings from the four joint cases.
		{"A[2:200[", "]1:100]T", true},
		{"]1:100]T", "A[2:200[", true},
		{"A]2:200]", "T]1:100]", true},
		{"[2:200[A", "[1:100[T", true},
		// Identical orientations do not pair up (except the self-paired
		// forms above).
		{"A[2:200[", "T[1:100[", false},
		{"A[2:200[", "[1:100[T", false},
		{"A]2:200]", "]1:100]T", false},
	}
	for _, tt := range tests {
		a, err := ParseBreakend(tt.a)
		if err != nil {
			t.Fatalf("ParseBreakend(%q) failed: %v", tt.a, err)
		}
		b, err := ParseBreakend(tt.b)
		if err != nil {
			t.Fatalf("ParseBreakend(%q) failed: %v", tt.b, err)
		}
		if got := b.ReciprocalOf(a); got != tt.want {
			t.Errorf("(%s).ReciprocalOf(%s) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}
