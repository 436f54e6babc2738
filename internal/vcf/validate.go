package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity of a validation finding.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Violation is one validation finding. Violations are collected rather
// than returned as errors: a record with violations is still usable,
// and one record can carry several.
type Violation struct {
	Severity Severity
	Line     int
	Message  string
}

// Validator checks decoded records against the schema and the VCF
// semantic rules that decoding alone does not enforce. Per-record
// checks run independently; mate and duplicate checks need the record
// set and run in ValidateSet.
type Validator struct {
	schema *Schema
}

// NewValidator returns a Validator over a frozen schema.
func NewValidator(s *Schema) *Validator {
	return &Validator{schema: s}
}

// ValidateRecord reports every violation in a single record. Records
// produced by a Decoder cannot violate the declaredness checks, but
// constructed records can.
func (v *Validator) ValidateRecord(r *Record) []Violation {
	var vs []Violation

	if r.Pos < 1 {
		vs = append(vs, Violation{Severity: SeverityError, Line: r.Line,
			Message: fmt.Sprintf("POS %d is not a valid 1-based coordinate", r.Pos)})
	}
	if decl, ok := v.schema.Contig(r.Chrom); ok {
		if length, ok := decl.ContigLength(); ok && r.Pos > length {
			vs = append(vs, Violation{Severity: SeverityWarning, Line: r.Line,
				Message: fmt.Sprintf("POS %d is beyond the declared length %d of contig %s", r.Pos, length, r.Chrom)})
		}
	}

	for _, f := range r.Info {
		decl, ok := v.schema.Info(f.Key)
		if !ok {
			vs = append(vs, Violation{Severity: SeverityError, Line: r.Line,
				Message: fmt.Sprintf("INFO %s is not declared in the header", f.Key)})
			continue
		}
		if w := checkWidth(decl, f.Value, len(r.Alts), r.Line); w != nil {
			vs = append(vs, *w)
		}
	}
	for _, key := range r.Format {
		if _, ok := v.schema.Format(key); !ok {
			vs = append(vs, Violation{Severity: SeverityError, Line: r.Line,
				Message: fmt.Sprintf("FORMAT %s is not declared in the header", key)})
		}
	}
	for _, label := range r.Filters {
		if _, ok := v.schema.Filter(label); !ok {
			vs = append(vs, Violation{Severity: SeverityError, Line: r.Line,
				Message: fmt.Sprintf("FILTER %s is not declared in the header", label)})
		}
	}

	for _, key := range []string{"CIPOS", "CIEND"} {
		val, ok := r.Info.Get(key)
		if !ok || allMissing(val) {
			continue
		}
		ints, ok := val.Ints()
		if !ok || len(ints) != 2 {
			vs = append(vs, Violation{Severity: SeverityWarning, Line: r.Line,
				Message: fmt.Sprintf("%s should have exactly 2 integer values", key)})
			continue
		}
		if ints[0] > 0 || ints[1] < 0 {
			vs = append(vs, Violation{Severity: SeverityWarning, Line: r.Line,
				Message: fmt.Sprintf("%s offset interval [%d,%d] does not contain 0", key, ints[0], ints[1])})
		}
	}

	return vs
}

// checkWidth compares a decoded value count against the declared
// Number. Variable and genotype-dependent widths are not checked, and
// a value of only missing entries counts as absent.
func checkWidth(decl *MetaDeclaration, val Value, nalts, line int) *Violation {
	if val.Kind() == KindFlag || val.IsMissing() || allMissing(val) {
		return nil
	}
	count := 1
	if list, ok := val.List(); ok {
		count = len(list)
	}
	var want int
	switch decl.Number {
	case NumberDot, NumberG:
		return nil
	case NumberA:
		want = nalts
	case NumberR:
		want = nalts + 1
	default:
		want = decl.Number
	}
	if count == want {
		return nil
	}
	return &Violation{Severity: SeverityWarning, Line: line,
		Message: fmt.Sprintf("INFO %s has %d values, Number=%s expects %d", decl.ID, count, FormatNumber(decl.Number), want)}
}

func allMissing(val Value) bool {
	list, ok := val.List()
	if !ok {
		return false
	}
	for _, e := range list {
		if !e.IsMissing() {
			return false
		}
	}
	return true
}

// ValidateSet runs the cross-record checks over a materialized record
// set: duplicate ID and duplicate position warnings, and breakend mate
// reciprocity within records sharing an ID.
func (v *Validator) ValidateSet(records []*Record) []Violation {
	var vs []Violation

	type locus struct {
		chrom string
		pos   int64
	}
	byID := make(map[string][]*Record)
	byPos := make(map[locus][]*Record)
	var idOrder []string
	var posOrder []locus

	for _, r := range records {
		if r.ID != "" && r.ID != "." {
			if _, seen := byID[r.ID]; !seen {
				idOrder = append(idOrder, r.ID)
			}
			byID[r.ID] = append(byID[r.ID], r)
		}
		k := locus{r.Chrom, r.Pos}
		if _, seen := byPos[k]; !seen {
			posOrder = append(posOrder, k)
		}
		byPos[k] = append(byPos[k], r)
	}

	for _, id := range idOrder {
		group := byID[id]
		if len(group) > 1 {
			vs = append(vs, Violation{Severity: SeverityWarning, Line: group[0].Line,
				Message: fmt.Sprintf("ID %q is used by %d records (lines %s)", id, len(group), lineList(group))})
		}
		vs = append(vs, checkMates(group)...)
	}
	for _, k := range posOrder {
		group := byPos[k]
		if len(group) > 1 {
			vs = append(vs, Violation{Severity: SeverityWarning, Line: group[0].Line,
				Message: fmt.Sprintf("position %s:%d is shared by %d records (lines %s)", k.chrom, k.pos, len(group), lineList(group))})
		}
	}

	return vs
}

// checkMates verifies breakend reciprocity inside one same-ID group:
// when record A's breakend points at record B's coordinate, some
// breakend of B must point back near A with the reciprocal orientation.
func checkMates(group []*Record) []Violation {
	var vs []Violation
	for _, a := range group {
		for _, ab := range a.Breakends() {
			for _, b := range group {
				if b == a || ab.MateChrom != b.Chrom || !near(ab.MatePos, b.Pos, ciTolerance(b)) {
					continue
				}
				pointsBack := false
				reciprocal := false
				for _, bb := range b.Breakends() {
					if bb.MateChrom != a.Chrom || !near(bb.MatePos, a.Pos, ciTolerance(a)) {
						continue
					}
					pointsBack = true
					if bb.ReciprocalOf(ab) {
						reciprocal = true
					}
				}
				switch {
				case !pointsBack:
					vs = append(vs, Violation{Severity: SeverityWarning, Line: a.Line,
						Message: fmt.Sprintf("breakend %s points at %s:%d (line %d) but no breakend there points back", ab, b.Chrom, b.Pos, b.Line)})
				case !reciprocal:
					vs = append(vs, Violation{Severity: SeverityWarning, Line: a.Line,
						Message: fmt.Sprintf("breakend %s and its mate at line %d have inconsistent orientations", ab, b.Line)})
				}
			}
		}
	}
	return vs
}

// ciTolerance is the widest absolute CIPOS offset of a record, used to
// decide whether a mate position points "near" it.
func ciTolerance(r *Record) int64 {
	val, ok := r.Info.Get("CIPOS")
	if !ok {
		return 0
	}
	ints, ok := val.Ints()
	if !ok {
		return 0
	}
	var tol int64
	for _, n := range ints {
		if n < 0 {
			n = -n
		}
		if n > tol {
			tol = n
		}
	}
	return tol
}

func near(a, b, tol int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func lineList(group []*Record) string {
	parts := make([]string, len(group))
	for i, r := range group {
		parts[i] = strconv.Itoa(r.Line)
	}
	return strings.Join(parts, ", ")
}
