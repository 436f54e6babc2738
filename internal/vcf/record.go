package vcf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FilterState classifies the FILTER column.
type FilterState uint8

const (
	FilterUnevaluated FilterState = iota // "."
	FilterPass                          // PASS
	FilterFailed                        // one or more filter labels
)

// Field is one key/value pair from the INFO column or a sample column.
type Field struct {
	Key   string
	Value Value
}

// FieldMap is an ordered field list preserving column order. Lookup is
// linear; VCF rows carry few enough keys that this beats a map and
// keeps re-encoding deterministic.
type FieldMap []Field

// Get returns the value for key.
func (m FieldMap) Get(key string) (Value, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present.
func (m FieldMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Record is one decoded data line. Records are independent of each
// other and immutable by convention after decoding.
type Record struct {
	Chrom       string
	Pos         int64
	ID          string // "." when absent
	Ref         string
	Alts        []string // nil when ALT is "."
	Qual        float64
	HasQual     bool
	FilterState FilterState
	Filters     []string // failing labels, set only for FilterFailed
	Info        FieldMap
	Format      []string   // FORMAT keys in column order, nil when absent
	Samples     []FieldMap // one map per sample, keyed by Format order
	Line        int        // 1-based input line, zero for constructed records
}

// IsSNV reports whether every allele is a single base substitution.
func (r *Record) IsSNV() bool {
	if len(r.Alts) == 0 || len(r.Ref) != 1 || !isSimpleSeq(r.Ref) {
		return false
	}
	for _, alt := range r.Alts {
		if len(alt) != 1 || !isSimpleSeq(alt) {
			return false
		}
	}
	return true
}

// IsIndel reports whether the alleles describe a sequence-resolved
// insertion or deletion.
func (r *Record) IsIndel() bool {
	if len(r.Alts) == 0 || !isSimpleSeq(r.Ref) {
		return false
	}
	lengthChange := false
	for _, alt := range r.Alts {
		if !isSimpleSeq(alt) {
			return false
		}
		if len(alt) != len(r.Ref) {
			lengthChange = true
		}
	}
	return lengthChange
}

// HasBreakend reports whether any allele uses breakend notation.
func (r *Record) HasBreakend() bool {
	for _, alt := range r.Alts {
		if IsBreakendAlt(alt) {
			return true
		}
	}
	return false
}

// HasSymbolic reports whether any allele is a symbolic <ID> allele.
func (r *Record) HasSymbolic() bool {
	for _, alt := range r.Alts {
		if strings.HasPrefix(alt, "<") {
			return true
		}
	}
	return false
}

// IsStructural reports whether the record describes a structural
// variant rather than a sequence-resolved one.
func (r *Record) IsStructural() bool {
	return r.HasBreakend() || r.HasSymbolic() || r.Info.Has("SVTYPE")
}

// SVType returns the INFO SVTYPE value, or "" if absent.
func (r *Record) SVType() string {
	v, ok := r.Info.Get("SVTYPE")
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// End returns the last reference position covered by the record: the
// INFO END value when present, otherwise POS plus the reference allele
// span.
func (r *Record) End() int64 {
	if v, ok := r.Info.Get("END"); ok {
		if n, ok := v.Int(); ok {
			return n
		}
	}
	end := r.Pos + int64(len(r.Ref)) - 1
	if end < r.Pos {
		return r.Pos
	}
	return end
}

// Passed reports whether the record passed all filters. Unevaluated
// records are not passed.
func (r *Record) Passed() bool { return r.FilterState == FilterPass }

// NormalizeChrom returns the chromosome name without any "chr" prefix.
func (r *Record) NormalizeChrom() string {
	return strings.TrimPrefix(r.Chrom, "chr")
}

// Breakends returns the decoded breakend alleles of the record, in ALT
// order. Alleles that fail to parse are skipped, which cannot happen
// for decoder-produced records.
func (r *Record) Breakends() []*Breakend {
	var out []*Breakend
	for _, alt := range r.Alts {
		if !IsBreakendAlt(alt) {
			continue
		}
		b, err := ParseBreakend(alt)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

func isSimpleSeq(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return true
}

// Genotype allele indices joined by / or |, each an index or missing.
var gtPattern = regexp.MustCompile(`^(\.|\d+)([/|](\.|\d+))*$`)

// Decoder turns raw data lines into Records. The schema must be fully
// built before the first decode and is never written through.
type Decoder struct {
	schema *Schema
}

// NewDecoder returns a Decoder over a frozen schema.
func NewDecoder(s *Schema) *Decoder {
	return &Decoder{schema: s}
}

// Schema returns the schema the decoder resolves against.
func (d *Decoder) Schema() *Schema { return d.schema }

// DecodeLine decodes one tab-separated data line. num is the 1-based
// input line number used in errors and stamped on the record. A failing
// line yields an error and no record.
func (d *Decoder) DecodeLine(line string, num int) (*Record, error) {
	if strings.HasPrefix(line, "#") {
		return nil, &MalformedRecordError{Line: num, Message: "header line in data section"}
	}

	fields := strings.Split(line, "\t")
	nsamples := len(d.schema.Samples())
	switch {
	case len(fields) == 8:
	case d.schema.HasFormatColumn() && len(fields) == 9+nsamples:
	default:
		want := "8"
		if d.schema.HasFormatColumn() {
			want = fmt.Sprintf("8 or %d", 9+nsamples)
		}
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("got %d columns, want %s", len(fields), want)}
	}

	r := &Record{Line: num}

	if fields[0] == "" || strings.ContainsAny(fields[0], " \t") {
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("invalid CHROM %q", fields[0])}
	}
	r.Chrom = fields[0]

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos <= 0 {
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("POS %q is not a positive integer", fields[1])}
	}
	r.Pos = pos

	if fields[2] == "" || strings.ContainsAny(fields[2], "; \t") {
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("invalid ID %q", fields[2])}
	}
	r.ID = fields[2]

	if !isSimpleSeq(fields[3]) {
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("REF %q contains non-base characters", fields[3])}
	}
	r.Ref = fields[3]

	if fields[4] != "." {
		r.Alts = strings.Split(fields[4], ",")
		for _, alt := range r.Alts {
			if err := d.checkAllele(alt, num); err != nil {
				return nil, err
			}
		}
	}

	if fields[5] != "." {
		q, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &TypeMismatchError{Line: num, Field: "QUAL", Value: fields[5], Want: TypeFloat}
		}
		r.Qual = q
		r.HasQual = true
	}

	state, labels, err := d.decodeFilter(fields[6], num)
	if err != nil {
		return nil, err
	}
	r.FilterState = state
	r.Filters = labels

	info, err := d.decodeInfo(fields[7], num)
	if err != nil {
		return nil, err
	}
	r.Info = info

	if len(fields) > 8 {
		format, err := d.decodeFormat(fields[8], num)
		if err != nil {
			return nil, err
		}
		r.Format = format
		r.Samples = make([]FieldMap, nsamples)
		for i := 0; i < nsamples; i++ {
			sample, err := d.decodeSample(d.schema.Samples()[i], fields[9+i], format, num)
			if err != nil {
				return nil, err
			}
			r.Samples[i] = sample
		}
	}

	return r, nil
}

// checkAllele validates one ALT token: a simple sequence, a declared
// symbolic allele, or breakend notation.
func (d *Decoder) checkAllele(alt string, num int) error {
	switch {
	case alt == "":
		return &MalformedRecordError{Line: num, Message: "empty ALT allele"}
	case strings.HasPrefix(alt, "<") && strings.HasSuffix(alt, ">"):
		id := alt[1 : len(alt)-1]
		if id == "" {
			return &MalformedRecordError{Line: num, Message: "empty symbolic ALT ID"}
		}
		if _, ok := d.schema.Alt(id); !ok {
			return &UnknownFieldError{Line: num, Category: CategoryAlt, ID: id}
		}
		return nil
	case IsBreakendAlt(alt):
		_, err := ParseBreakend(alt)
		if be, ok := err.(*InvalidBreakendError); ok {
			be.Line = num
		}
		return err
	case isSimpleSeq(alt):
		return nil
	}
	return &MalformedRecordError{Line: num, Message: fmt.Sprintf("ALT allele %q is not a sequence, symbolic, or breakend allele", alt)}
}

func (d *Decoder) decodeFilter(raw string, num int) (FilterState, []string, error) {
	switch raw {
	case ".":
		return FilterUnevaluated, nil, nil
	case "PASS":
		return FilterPass, nil, nil
	case "":
		return 0, nil, &MalformedRecordError{Line: num, Message: "empty FILTER column"}
	}
	labels := strings.Split(raw, ";")
	for _, label := range labels {
		if label == "" {
			return 0, nil, &MalformedRecordError{Line: num, Message: "empty FILTER label"}
		}
		if _, ok := d.schema.Filter(label); !ok {
			return 0, nil, &UnknownFilterError{Line: num, Filter: label}
		}
	}
	return FilterFailed, labels, nil
}

func (d *Decoder) decodeInfo(raw string, num int) (FieldMap, error) {
	if raw == "." {
		return nil, nil
	}
	if raw == "" {
		return nil, &MalformedRecordError{Line: num, Message: "empty INFO column"}
	}
	tokens := strings.Split(raw, ";")
	m := make(FieldMap, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			return nil, &MalformedRecordError{Line: num, Message: "empty INFO token"}
		}
		key, val, hasValue := strings.Cut(tok, "=")
		decl, ok := d.schema.Info(key)
		if !ok {
			return nil, &UnknownFieldError{Line: num, Category: CategoryInfo, ID: key}
		}
		if !hasValue {
			if decl.Type != TypeFlag {
				return nil, &TypeMismatchError{Line: num, Field: "INFO " + key, Value: "", Want: decl.Type}
			}
			m = append(m, Field{Key: key, Value: FlagValue()})
			continue
		}
		if decl.Type == TypeFlag {
			return nil, &TypeMismatchError{Line: num, Field: "INFO " + key, Value: val, Want: TypeFlag}
		}
		v, err := d.fieldValue("INFO "+key, decl, val, num)
		if err != nil {
			return nil, err
		}
		m = append(m, Field{Key: key, Value: v})
	}
	return m, nil
}

func (d *Decoder) decodeFormat(raw string, num int) ([]string, error) {
	keys := strings.Split(raw, ":")
	for _, k := range keys {
		if k == "" {
			return nil, &MalformedRecordError{Line: num, Message: "empty FORMAT key"}
		}
		if _, ok := d.schema.Format(k); !ok {
			return nil, &UnknownFieldError{Line: num, Category: CategoryFormat, ID: k}
		}
	}
	return keys, nil
}

// decodeSample decodes one sample column against the FORMAT key order.
// Trailing sub-fields may be omitted and are padded with the missing
// value.
func (d *Decoder) decodeSample(name, raw string, format []string, num int) (FieldMap, error) {
	subs := strings.Split(raw, ":")
	if len(subs) > len(format) {
		return nil, &MalformedRecordError{Line: num, Message: fmt.Sprintf("sample %s has %d sub-fields, FORMAT lists %d", name, len(subs), len(format))}
	}
	m := make(FieldMap, 0, len(format))
	for i, key := range format {
		if i >= len(subs) || subs[i] == "." || subs[i] == "" {
			m = append(m, Field{Key: key, Value: MissingValue()})
			continue
		}
		if key == "GT" {
			// Genotypes follow the allele-index grammar regardless of
			// their declared type.
			if !gtPattern.MatchString(subs[i]) {
				return nil, &TypeMismatchError{Line: num, Field: "sample " + name + " GT", Value: subs[i], Want: TypeString}
			}
			m = append(m, Field{Key: key, Value: StringValue(subs[i])})
			continue
		}
		decl, _ := d.schema.Format(key)
		v, err := d.fieldValue("sample "+name+" "+key, decl, subs[i], num)
		if err != nil {
			return nil, err
		}
		m = append(m, Field{Key: key, Value: v})
	}
	return m, nil
}

// fieldValue decodes a raw value under its declaration: a scalar for
// Number=1, otherwise a comma-separated list.
func (d *Decoder) fieldValue(field string, decl *MetaDeclaration, raw string, num int) (Value, error) {
	if decl.Number == 1 {
		return d.scalarValue(field, raw, decl.Type, num)
	}
	parts := strings.Split(raw, ",")
	vals := make([]Value, len(parts))
	for i, p := range parts {
		v, err := d.scalarValue(field, p, decl.Type, num)
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	return ListValue(vals), nil
}

func (d *Decoder) scalarValue(field, raw string, typ Type, num int) (Value, error) {
	if raw == "." {
		return MissingValue(), nil
	}
	switch typ {
	case TypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, &TypeMismatchError{Line: num, Field: field, Value: raw, Want: typ}
		}
		return IntValue(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, &TypeMismatchError{Line: num, Field: field, Value: raw, Want: typ}
		}
		return FloatValue(f), nil
	case TypeCharacter:
		rs := []rune(raw)
		if len(rs) != 1 {
			return Value{}, &TypeMismatchError{Line: num, Field: field, Value: raw, Want: typ}
		}
		return CharValue(rs[0]), nil
	case TypeString:
		return StringValue(raw), nil
	}
	return Value{}, &TypeMismatchError{Line: num, Field: field, Value: raw, Want: typ}
}
