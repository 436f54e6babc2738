package compare

import "github.com/inodb/vcfcompare/internal/vcf"

// ConfInterval returns the confidence interval covered by a record:
// POS and END widened by the absolute CIPOS/CIEND offsets. A one-value
// CIPOS or CIEND widens both sides equally. Indels get indelWindow
// added on both sides so that nearby representations of the same event
// still overlap.
func ConfInterval(r *vcf.Record, indelWindow int64) (int64, int64) {
	ciposStart, ciposEnd := ciWidths(r, "CIPOS")
	_, ciendEnd := ciWidths(r, "CIEND")

	end := r.Pos + 1
	if v, ok := r.Info.Get("END"); ok {
		if n, ok := v.Int(); ok {
			end = n + ciendEnd
		}
	} else {
		end += ciposEnd
	}

	if r.IsIndel() {
		ciposStart += indelWindow
		end += indelWindow
	}

	return r.Pos - ciposStart, end
}

// ciWidths returns the absolute left and right offsets of a CIPOS or
// CIEND value. A single offset applies to both sides; a missing field
// is zero width.
func ciWidths(r *vcf.Record, key string) (int64, int64) {
	v, ok := r.Info.Get(key)
	if !ok {
		return 0, 0
	}
	ints, ok := v.Ints()
	if !ok || len(ints) == 0 {
		return 0, 0
	}
	if len(ints) >= 2 {
		return abs64(ints[0]), abs64(ints[1])
	}
	w := abs64(ints[0])
	return w, w
}

// overlapCoords returns the start and end of the overlap between two
// intervals, or (0, 0) when they do not overlap.
func overlapCoords(aStart, aEnd, bStart, bEnd int64) (int64, int64) {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi-lo > 0 {
		return lo, hi
	}
	return 0, 0
}

// intervalsOverlap reports whether the confidence intervals of two
// records overlap.
func intervalsOverlap(a, b *vcf.Record, indelWindow int64) bool {
	aStart, aEnd := ConfInterval(a, indelWindow)
	bStart, bEnd := ConfInterval(b, indelWindow)
	lo, hi := overlapCoords(aStart, aEnd, bStart, bEnd)
	return lo != 0 || hi != 0
}

// intervalScore scores a matched pair by the fraction of their
// confidence intervals that overlap: 2*overlap/(lenA+lenB), 1.0 for
// identical intervals. With weighted set, partial overlaps are further
// scaled by the normal density mass over each interval (see weight.go).
func intervalScore(a, b *vcf.Record, indelWindow int64, weighted bool) float64 {
	aStart, aEnd := ConfInterval(a, indelWindow)
	bStart, bEnd := ConfInterval(b, indelWindow)

	olStart, olEnd := overlapCoords(aStart, aEnd, bStart, bEnd)
	olWidth := olEnd - olStart
	if olWidth <= 0 {
		return 0
	}

	lenA := aEnd - aStart
	lenB := bEnd - bStart
	s := float64(2*olWidth) / float64(lenA+lenB)

	if weighted {
		denA, denB := 1.0, 1.0
		if olWidth < lenA {
			denA = intervalDensity(aStart, aEnd, olStart, olEnd)
		}
		if olWidth < lenB {
			denB = intervalDensity(bStart, bEnd, olStart, olEnd)
		}
		s = s * denA * denB
	}
	return s
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
