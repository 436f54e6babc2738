package compare

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Mask is a set of genomic intervals loaded from a BED file. Records
// whose POS falls inside a masked interval are excluded from
// comparison.
type Mask struct {
	chroms map[string][]maskInterval
}

// maskInterval is 1-based inclusive; BED's 0-based half-open rows are
// converted on load.
type maskInterval struct {
	start int64
	end   int64
}

// LoadMask reads a BED file of masked intervals. Gzipped files are
// handled by extension. track, browser, and comment lines are skipped.
func LoadMask(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	m := &Mask{chroms: make(map[string][]maskInterval)}

	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			fields = strings.Fields(line)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("parse mask line %d: expected at least 3 columns, found %d", lineNum, len(fields))
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse mask line %d: invalid start %q", lineNum, fields[1])
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse mask line %d: invalid end %q", lineNum, fields[2])
		}
		if end < start {
			return nil, fmt.Errorf("parse mask line %d: end %d before start %d", lineNum, end, start)
		}

		chrom := normalizeChrom(fields[0])
		m.chroms[chrom] = append(m.chroms[chrom], maskInterval{start: start + 1, end: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mask file: %w", err)
	}

	for chrom := range m.chroms {
		m.chroms[chrom] = mergeIntervals(m.chroms[chrom])
	}
	return m, nil
}

// Contains reports whether pos on chrom falls inside a masked interval.
func (m *Mask) Contains(chrom string, pos int64) bool {
	ivs := m.chroms[normalizeChrom(chrom)]
	if len(ivs) == 0 {
		return false
	}
	// First interval starting after pos; only its predecessor can
	// contain pos since intervals are merged and sorted.
	i := sort.Search(len(ivs), func(i int) bool {
		return ivs[i].start > pos
	})
	return i > 0 && ivs[i-1].end >= pos
}

// Size returns the number of merged intervals in the mask.
func (m *Mask) Size() int {
	n := 0
	for _, ivs := range m.chroms {
		n += len(ivs)
	}
	return n
}

// mergeIntervals sorts and coalesces overlapping or adjacent intervals.
func mergeIntervals(ivs []maskInterval) []maskInterval {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		return ivs[i].end < ivs[j].end
	})
	merged := ivs[:0]
	for _, iv := range ivs {
		if n := len(merged); n > 0 && iv.start <= merged[n-1].end+1 {
			if iv.end > merged[n-1].end {
				merged[n-1].end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
