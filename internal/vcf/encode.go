package vcf

import (
	"strconv"
	"strings"
)

// String renders the record as one VCF data line in canonical form:
// flags as bare keys, "." for absent values, PASS and "." filter
// sentinels. Decoding the result yields an equivalent record.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.Chrom)
	b.WriteByte('\t')
	b.WriteString(strconv.FormatInt(r.Pos, 10))
	b.WriteByte('\t')
	b.WriteString(orDot(r.ID))
	b.WriteByte('\t')
	b.WriteString(orDot(r.Ref))
	b.WriteByte('\t')
	if len(r.Alts) == 0 {
		b.WriteByte('.')
	} else {
		b.WriteString(strings.Join(r.Alts, ","))
	}
	b.WriteByte('\t')
	if r.HasQual {
		b.WriteString(formatFloat(r.Qual))
	} else {
		b.WriteByte('.')
	}
	b.WriteByte('\t')
	switch r.FilterState {
	case FilterPass:
		b.WriteString("PASS")
	case FilterFailed:
		b.WriteString(strings.Join(r.Filters, ";"))
	default:
		b.WriteByte('.')
	}
	b.WriteByte('\t')
	writeInfo(&b, r.Info)
	if r.Format != nil {
		b.WriteByte('\t')
		b.WriteString(strings.Join(r.Format, ":"))
		for _, sample := range r.Samples {
			b.WriteByte('\t')
			writeSample(&b, r.Format, sample)
		}
	}
	return b.String()
}

func writeInfo(b *strings.Builder, info FieldMap) {
	if len(info) == 0 {
		b.WriteByte('.')
		return
	}
	for i, f := range info {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.Key)
		if f.Value.Kind() == KindFlag {
			continue
		}
		b.WriteByte('=')
		b.WriteString(f.Value.String())
	}
}

func writeSample(b *strings.Builder, format []string, sample FieldMap) {
	for i, key := range format {
		if i > 0 {
			b.WriteByte(':')
		}
		v, ok := sample.Get(key)
		if !ok || v.IsMissing() {
			b.WriteByte('.')
			continue
		}
		b.WriteString(v.String())
	}
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
