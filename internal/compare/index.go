package compare

import (
	"sort"

	"github.com/inodb/vcfcompare/internal/vcf"
)

// Index holds one side's records grouped per chromosome for windowed
// overlap queries. Records are loaded once and never modified after
// build.
type Index struct {
	chroms map[string]*chromIndex
}

type chromIndex struct {
	spans  []span
	maxEnd []int64 // maxEnd[i] = max(end) for spans[i:]
}

type span struct {
	start int64
	end   int64
	rec   *vcf.Record
}

// BuildIndex indexes records by their reference span [POS, End] under
// the normalized chromosome name.
func BuildIndex(records []*vcf.Record) *Index {
	byChrom := make(map[string][]span)
	for _, r := range records {
		chrom := normalizeChrom(r.Chrom)
		byChrom[chrom] = append(byChrom[chrom], span{start: r.Pos, end: r.End(), rec: r})
	}

	idx := &Index{chroms: make(map[string]*chromIndex, len(byChrom))}
	for chrom, spans := range byChrom {
		sort.Slice(spans, func(i, j int) bool {
			if spans[i].start != spans[j].start {
				return spans[i].start < spans[j].start
			}
			return spans[i].rec.Line < spans[j].rec.Line
		})

		// Suffix-max array: maxEnd[i] = max(end) for spans[i:]
		maxEnd := make([]int64, len(spans))
		maxEnd[len(spans)-1] = spans[len(spans)-1].end
		for i := len(spans) - 2; i >= 0; i-- {
			maxEnd[i] = spans[i].end
			if maxEnd[i+1] > maxEnd[i] {
				maxEnd[i] = maxEnd[i+1]
			}
		}
		idx.chroms[chrom] = &chromIndex{spans: spans, maxEnd: maxEnd}
	}
	return idx
}

// Fetch returns the records on chrom whose span overlaps [start, end],
// in ascending start order. chrom is normalized before lookup.
func (idx *Index) Fetch(chrom string, start, end int64) []*vcf.Record {
	ci := idx.chroms[normalizeChrom(chrom)]
	if ci == nil {
		return nil
	}

	// Binary search: first span with start > end; candidates are [0, hi).
	hi := sort.Search(len(ci.spans), func(i int) bool {
		return ci.spans[i].start > end
	})

	var result []*vcf.Record
	for i := hi - 1; i >= 0; i-- {
		// Prune: if no span in [0, i] reaches start, none can overlap.
		if ci.maxEnd[i] < start {
			break
		}
		if ci.spans[i].end >= start {
			result = append(result, ci.spans[i].rec)
		}
	}

	// The scan walks right to left; callers want coordinate order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// Size returns the number of indexed records.
func (idx *Index) Size() int {
	n := 0
	for _, ci := range idx.chroms {
		n += len(ci.spans)
	}
	return n
}

func normalizeChrom(chrom string) string {
	if len(chrom) > 3 && chrom[:3] == "chr" {
		return chrom[3:]
	}
	return chrom
}
