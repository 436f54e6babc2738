// Package compare implements one-way and two-way comparison of VCF
// call sets: classifying records, matching calls between files, and
// tallying agreement on somatic status and filters.
package compare

import (
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/vcfcompare/internal/vcf"
)

// Default match windows in bases.
const (
	DefaultIndelWindow = 50
	DefaultSVWindow    = 1000
)

// Options control matching windows, scoring, and masking.
type Options struct {
	// IndelWindow is the distance within which two indel calls may
	// match, and the widening applied to indel confidence intervals.
	IndelWindow int64
	// SVWindow is the fetch window around structural variant calls.
	SVWindow int64
	// WeightIntervals scales interval scores by the normal density
	// mass of the overlap.
	WeightIntervals bool
	// Mask excludes records at masked positions from comparison.
	Mask *Mask
}

// Comparer runs one-way comparisons between two decoded call sets.
type Comparer struct {
	opts   Options
	logger *zap.Logger
}

// NewComparer returns a Comparer. Zero windows fall back to the
// defaults.
func NewComparer(opts Options) *Comparer {
	if opts.IndelWindow <= 0 {
		opts.IndelWindow = DefaultIndelWindow
	}
	if opts.SVWindow <= 0 {
		opts.SVWindow = DefaultSVWindow
	}
	return &Comparer{opts: opts, logger: zap.NewNop()}
}

// SetLogger sets the logger used for progress and consistency
// warnings.
func (c *Comparer) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Result is the outcome of one one-way comparison: every classified
// A-side record as a Pair, grouped per class.
type Result struct {
	pairs map[Class][]*Pair
	opts  Options
}

// Pairs returns the pairs of one class in input order.
func (r *Result) Pairs(class Class) []*Pair { return r.pairs[class] }

// Total returns the number of classified A-side records in a class.
func (r *Result) Total(class Class) int { return len(r.pairs[class]) }

// Matched returns the number of matched pairs in a class.
func (r *Result) Matched(class Class) int {
	n := 0
	for _, p := range r.pairs[class] {
		if p.Matched() {
			n++
		}
	}
	return n
}

// AltMatched returns the number of alternate matches in a class.
func (r *Result) AltMatched(class Class) int {
	n := 0
	for _, p := range r.pairs[class] {
		n += len(p.Alt)
	}
	return n
}

// AgreeSomatic returns the matched pairs where both calls are somatic.
func (r *Result) AgreeSomatic(class Class) int {
	return r.count(class, func(p *Pair) bool { return p.BothSomatic() })
}

// AgreeGermline returns the matched pairs where both calls are
// germline.
func (r *Result) AgreeGermline(class Class) int {
	return r.count(class, func(p *Pair) bool { return p.BothGermline() })
}

// DisagreeSomatic returns the matched pairs where one call is somatic
// and the other is not.
func (r *Result) DisagreeSomatic(class Class) int {
	return r.count(class, func(p *Pair) bool {
		return p.Matched() && p.HasSomatic() && !p.BothSomatic()
	})
}

// AgreePass returns the matched pairs where both calls passed filters.
func (r *Result) AgreePass(class Class) int {
	return r.count(class, func(p *Pair) bool { return p.BothPass() })
}

// AgreeFail returns the pairs where no call passed filters.
func (r *Result) AgreeFail(class Class) int {
	return r.count(class, func(p *Pair) bool { return !p.HasPass() })
}

// DisagreePass returns the matched pairs where one call passed and the
// other did not.
func (r *Result) DisagreePass(class Class) int {
	return r.count(class, func(p *Pair) bool {
		return p.Matched() && p.HasPass() && !p.BothPass()
	})
}

// SumScores returns the summed match scores of a class.
func (r *Result) SumScores(class Class) float64 {
	s := 0.0
	for _, p := range r.pairs[class] {
		s += p.Score(class, r.opts.IndelWindow, r.opts.WeightIntervals)
	}
	return s
}

func (r *Result) count(class Class, pred func(*Pair) bool) int {
	n := 0
	for _, p := range r.pairs[class] {
		if pred(p) {
			n++
		}
	}
	return n
}

// Compare runs the one-way comparison a --> b: every classified record
// of a becomes a Pair, matched against the b side where the rules
// allow.
func (c *Comparer) Compare(a, b []*vcf.Record) *Result {
	idx := BuildIndex(b)
	res := &Result{pairs: make(map[Class][]*Pair), opts: c.opts}

	// B-side interval records claimed by an earlier A record only
	// alt-match later ones.
	claimed := make(map[*vcf.Record]bool)

	masked := 0
	for _, recA := range a {
		if c.opts.Mask != nil && c.opts.Mask.Contains(recA.Chrom, recA.Pos) {
			masked++
			continue
		}

		class, ok := ClassOf(recA)
		if !ok {
			continue
		}

		var window int64
		switch class {
		case ClassIndel:
			window = c.opts.IndelWindow
		case ClassSV, ClassCNV:
			window = c.opts.SVWindow
		}

		start := recA.Pos - window
		if start < 1 {
			start = 1
		}
		end := recA.End() + window

		pair := &Pair{A: recA}
		for _, recB := range idx.Fetch(recA.Chrom, start, end) {
			if !match(recA, recB, class, c.opts.IndelWindow) {
				continue
			}
			switch {
			case pair.Matched():
				pair.Alt = append(pair.Alt, recB)
			case class != ClassSNV && claimed[recB]:
				pair.Alt = append(pair.Alt, recB)
			default:
				pair.B = recB
				if class != ClassSNV {
					claimed[recB] = true
				}
			}
		}
		res.pairs[class] = append(res.pairs[class], pair)
	}

	if masked > 0 {
		c.logger.Info("masked records excluded from comparison",
			zap.Int("count", masked))
	}
	return res
}

// SummaryRow is one class's line of the two-way summary table.
type SummaryRow struct {
	Class           Class
	AOnly           int
	AAlt            int
	BOnly           int
	BAlt            int
	Shared          int
	AgreeSomatic    int
	AgreeGermline   int
	DisagreeSomatic int
	AgreePass       int
	AgreeFail       int
	DisagreePass    int
	SumScore        float64
}

// Summarize combines the A-->B and B-->A results into per-class
// summary rows. Shared counts come from the A-->B direction; an
// asymmetric overlap is logged, not fatal.
func (c *Comparer) Summarize(ab, ba *Result) []SummaryRow {
	rows := make([]SummaryRow, 0, len(Classes))
	for _, class := range Classes {
		sharedAB := ab.Matched(class)
		sharedBA := ba.Matched(class)
		if sharedAB != sharedBA {
			c.logger.Warn("overlap was not symmetric, using A-->B",
				zap.String("class", string(class)),
				zap.Int("sharedAB", sharedAB),
				zap.Int("sharedBA", sharedBA))
		}

		rows = append(rows, SummaryRow{
			Class:           class,
			AOnly:           ab.Total(class) - sharedAB,
			AAlt:            ab.AltMatched(class),
			BOnly:           ba.Total(class) - sharedAB,
			BAlt:            ba.AltMatched(class),
			Shared:          sharedAB,
			AgreeSomatic:    ab.AgreeSomatic(class),
			AgreeGermline:   ab.AgreeGermline(class),
			DisagreeSomatic: ab.DisagreeSomatic(class),
			AgreePass:       ab.AgreePass(class),
			AgreeFail:       ab.AgreeFail(class),
			DisagreePass:    ab.DisagreePass(class),
			SumScore:        ab.SumScores(class),
		})
	}
	return rows
}

// SplitByMatch returns the A-side records of a result divided into
// matched and unmatched, each sorted by coordinate for re-emission.
func SplitByMatch(res *Result) (matched, unmatched []*vcf.Record) {
	for _, class := range Classes {
		for _, p := range res.pairs[class] {
			if p.Matched() {
				matched = append(matched, p.A)
			} else {
				unmatched = append(unmatched, p.A)
			}
		}
	}
	byCoord := func(recs []*vcf.Record) func(i, j int) bool {
		return func(i, j int) bool {
			if recs[i].Chrom != recs[j].Chrom {
				return recs[i].Chrom < recs[j].Chrom
			}
			if recs[i].Pos != recs[j].Pos {
				return recs[i].Pos < recs[j].Pos
			}
			return recs[i].Line < recs[j].Line
		}
	}
	sort.Slice(matched, byCoord(matched))
	sort.Slice(unmatched, byCoord(unmatched))
	return matched, unmatched
}
