package compare

import "github.com/inodb/vcfcompare/internal/vcf"

// Class buckets records into the variant classes that are tallied and
// matched separately.
type Class string

const (
	ClassSNV   Class = "SNV"
	ClassIndel Class = "INDEL"
	ClassCNV   Class = "CNV"
	ClassSV    Class = "SV"
)

// Classes lists the variant classes in summary output order.
var Classes = []Class{ClassSNV, ClassIndel, ClassCNV, ClassSV}

// ClassOf classifies a record by its REF/ALT shape and SVTYPE. ok is
// false for records in none of the compared classes (symbolic alleles
// other than CNVs, monomorphic reference lines).
func ClassOf(r *vcf.Record) (Class, bool) {
	switch {
	case r.IsSNV():
		return ClassSNV, true
	case r.IsIndel():
		return ClassIndel, true
	case r.HasBreakend() || r.SVType() == "BND":
		return ClassSV, true
	case r.SVType() == "CNV":
		return ClassCNV, true
	}
	return "", false
}

// match reports whether b is the same call as a under the rules for
// a's class. Positional proximity for indels and SVs is enforced by the
// fetch window, not here.
func match(a, b *vcf.Record, class Class, indelWindow int64) bool {
	switch class {
	case ClassSNV:
		return b.IsSNV() && a.Pos == b.Pos && a.Ref == b.Ref && altsEqual(a, b)
	case ClassIndel:
		return b.IsIndel() && a.Ref == b.Ref && altsEqual(a, b)
	case ClassSV:
		if a.SVType() != "BND" || b.SVType() != "BND" {
			return false
		}
		return sameOrientation(a, b) && intervalsOverlap(a, b, indelWindow)
	case ClassCNV:
		return b.SVType() == "CNV" && intervalsOverlap(a, b, indelWindow)
	}
	return false
}

func altsEqual(a, b *vcf.Record) bool {
	if len(a.Alts) != len(b.Alts) {
		return false
	}
	for i := range a.Alts {
		if a.Alts[i] != b.Alts[i] {
			return false
		}
	}
	return true
}

// sameOrientation reports whether two breakend records describe the
// same joint case. Records without bracket notation fall back to
// comparing their first alternate allele verbatim.
func sameOrientation(a, b *vcf.Record) bool {
	ab, bb := a.Breakends(), b.Breakends()
	if len(ab) > 0 && len(bb) > 0 {
		return ab[0].SameOrientation(bb[0])
	}
	if len(ab) == 0 && len(bb) == 0 {
		return len(a.Alts) > 0 && len(b.Alts) > 0 && a.Alts[0] == b.Alts[0]
	}
	return false
}

// Pair is one A-side record with its match on the B side, if any.
// When several B records match, the first one claims the pair and the
// rest are alternate matches; a B record already claimed by an earlier
// pair only alt-matches, which keeps matching symmetric.
type Pair struct {
	A   *vcf.Record
	B   *vcf.Record
	Alt []*vcf.Record
}

// Matched reports whether the pair has a B-side record.
func (p *Pair) Matched() bool { return p.B != nil }

// somatic status values carried in the INFO SS field.
const (
	ssSomatic  = "Somatic"
	ssGermline = "Germline"
)

func ssValue(r *vcf.Record) string {
	v, ok := r.Info.Get("SS")
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// HasSomatic reports whether either call carries SS=Somatic. For an
// unmatched pair only the A side is consulted.
func (p *Pair) HasSomatic() bool {
	if !p.Matched() {
		return ssValue(p.A) == ssSomatic
	}
	return ssValue(p.A) == ssSomatic || ssValue(p.B) == ssSomatic
}

// BothSomatic reports whether both calls are somatic, by SS value or by
// the SOMATIC flag.
func (p *Pair) BothSomatic() bool {
	if !p.Matched() {
		return false
	}
	if ssValue(p.A) == ssSomatic && ssValue(p.B) == ssSomatic {
		return true
	}
	return p.A.Info.Has("SOMATIC") && p.B.Info.Has("SOMATIC")
}

// BothGermline reports whether both calls are germline, by SS value or
// by a Germline flag.
func (p *Pair) BothGermline() bool {
	if !p.Matched() {
		return false
	}
	if ssValue(p.A) == ssGermline && ssValue(p.B) == ssGermline {
		return true
	}
	return p.A.Info.Has("Germline") && p.B.Info.Has("Germline")
}

// passes treats an unevaluated FILTER like a pass: only explicit filter
// labels count as failing.
func passes(r *vcf.Record) bool {
	return r.FilterState != vcf.FilterFailed
}

// HasPass reports whether either call passed its filters. For an
// unmatched pair only the A side is consulted.
func (p *Pair) HasPass() bool {
	if !p.Matched() {
		return passes(p.A)
	}
	return passes(p.A) || passes(p.B)
}

// BothPass reports whether both calls passed their filters.
func (p *Pair) BothPass() bool {
	if !p.Matched() {
		return false
	}
	return passes(p.A) && passes(p.B)
}

// Score returns the pair's match score: zero for unmatched pairs, 1.0
// for matched SNVs, and the interval overlap score for the interval
// classes.
func (p *Pair) Score(class Class, indelWindow int64, weighted bool) float64 {
	if !p.Matched() {
		return 0
	}
	if class == ClassSNV {
		return 1.0
	}
	return intervalScore(p.A, p.B, indelWindow, weighted)
}
