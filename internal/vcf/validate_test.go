package vcf

import (
	"strings"
	"testing"
)

func countBySeverity(vs []Violation) (errors, warnings int) {
	for _, v := range vs {
		if v.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return
}

func findViolation(vs []Violation, substr string) *Violation {
	for i := range vs {
		if strings.Contains(vs[i].Message, substr) {
			return &vs[i]
		}
	}
	return nil
}

func TestValidateRecord_Clean(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	r := decodeLine(t, d, "1\t14370\trs6054257\tG\tA\t29\tPASS\tDP=14;AF=0.5;DB")
	if vs := v.ValidateRecord(r); len(vs) != 0 {
		t.Errorf("clean record produced %d violations: %v", len(vs), vs)
	}
}

func TestValidateRecord_ConfidenceIntervals(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	// The offset interval must contain zero.
	r := decodeLine(t, d, "1\t100\tbnd\tG\tG[1:200[\t.\t.\tSVTYPE=BND;CIPOS=5,125")
	vs := v.ValidateRecord(r)
	w := findViolation(vs, "does not contain 0")
	if w == nil {
		t.Fatalf("no zero-containment warning in %v", vs)
	}
	if w.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", w.Severity)
	}

	// A symmetric interval is fine.
	r = decodeLine(t, d, "1\t100\tbnd\tG\tG[1:200[\t.\t.\tSVTYPE=BND;CIPOS=-125,125")
	if vs := v.ValidateRecord(r); len(vs) != 0 {
		t.Errorf("symmetric CIPOS flagged: %v", vs)
	}

	// Wrong arity.
	r = decodeLine(t, d, "1\t100\tbnd\tG\tG[1:200[\t.\t.\tSVTYPE=BND;CIPOS=-125")
	if findViolation(v.ValidateRecord(r), "exactly 2 integer values") == nil {
		t.Error("one-element CIPOS not flagged")
	}
}

func TestValidateRecord_NumberWidths(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	// Number=A with two values for one alternate allele.
	r := decodeLine(t, d, "1\t100\t.\tG\tA\t.\t.\tAF=0.5,0.5")
	w := findViolation(v.ValidateRecord(r), "Number=A expects 1")
	if w == nil {
		t.Fatal("width mismatch not flagged")
	}

	// Matching width passes.
	r = decodeLine(t, d, "1\t100\t.\tG\tA,T\t.\t.\tAF=0.5,0.5")
	if vs := v.ValidateRecord(r); len(vs) != 0 {
		t.Errorf("matching width flagged: %v", vs)
	}

	// All-missing values count as absent.
	r = decodeLine(t, d, "1\t100\t.\tG\tA,T\t.\t.\tCIPOS=.,.")
	if findViolation(v.ValidateRecord(r), "CIPOS") != nil {
		t.Error("all-missing CIPOS flagged for width")
	}
}

func TestValidateRecord_ContigLength(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	r := decodeLine(t, d, "1\t249250622\t.\tG\tA\t.\t.\t.")
	w := findViolation(v.ValidateRecord(r), "beyond the declared length")
	if w == nil {
		t.Fatal("POS beyond contig length not flagged")
	}
	if w.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", w.Severity)
	}

	// Undeclared contigs are not length-checked.
	r = decodeLine(t, d, "GL000207.1\t999999999\t.\tG\tA\t.\t.\t.")
	if vs := v.ValidateRecord(r); len(vs) != 0 {
		t.Errorf("undeclared contig flagged: %v", vs)
	}
}

func TestValidateRecord_ConstructedRecord(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	// Hand-built records bypass the decoder and can carry undeclared
	// keys and broken positions.
	r := &Record{
		Chrom:       "1",
		Pos:         0,
		Ref:         "G",
		Alts:        []string{"A"},
		FilterState: FilterFailed,
		Filters:     []string{"nocall"},
		Info:        FieldMap{{Key: "XX", Value: IntValue(1)}},
		Format:      []string{"ZZ"},
		Line:        41,
	}
	vs := v.ValidateRecord(r)
	nerr, _ := countBySeverity(vs)
	if nerr != 4 {
		t.Fatalf("got %d errors, want POS + INFO + FORMAT + FILTER: %v", nerr, vs)
	}
	for _, violation := range vs {
		if violation.Line != 41 {
			t.Errorf("violation line = %d, want 41", violation.Line)
		}
	}
}

func TestValidateSet_Duplicates(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	records := []*Record{
		decodeLine(t, d, "1\t100\tcall1\tG\tA\t.\t.\t."),
		decodeLine(t, d, "1\t200\tcall1\tG\tT\t.\t.\t."),
		decodeLine(t, d, "1\t200\tcall2\tG\tC\t.\t.\t."),
		decodeLine(t, d, "2\t200\t.\tG\tA\t.\t.\t."),
		decodeLine(t, d, "2\t200\t.\tG\tT\t.\t.\t."),
	}
	for i, r := range records {
		r.Line = 10 + i
	}

	vs := v.ValidateSet(records)
	if w := findViolation(vs, `ID "call1" is used by 2 records`); w == nil {
		t.Errorf("duplicate ID not flagged: %v", vs)
	}
	if w := findViolation(vs, "position 1:200 is shared by 2 records"); w == nil {
		t.Errorf("duplicate position on chrom 1 not flagged: %v", vs)
	}
	if w := findViolation(vs, "position 2:200 is shared by 2 records"); w == nil {
		t.Errorf("duplicate position on chrom 2 not flagged: %v", vs)
	}
	// Missing IDs never group.
	if w := findViolation(vs, `ID "."`); w != nil {
		t.Errorf("missing IDs grouped: %v", w)
	}
}

func TestValidateSet_MateReciprocity(t *testing.T) {
	d := testDecoder(t)
	v := NewValidator(d.Schema())

	// A proper pair: t[p[ on one side, ]p]t pointing back. The shared
	// event ID is still reported, but the adjacency itself is clean.
	pair := []*Record{
		decodeLine(t, d, "1\t100\tbnd_x\tA\tA[2:500[\t.\t.\tSVTYPE=BND"),
		decodeLine(t, d, "2\t500\tbnd_x\tT\t]1:100]T\t.\t.\tSVTYPE=BND"),
	}
	pair[1].Line = 2
	vs := v.ValidateSet(pair)
	if len(vs) != 1 || findViolation(vs, `ID "bnd_x"`) == nil {
		t.Errorf("want only the shared-ID warning, got %v", vs)
	}

	// Same locus, wrong orientation on the way back.
	skew := []*Record{
		decodeLine(t, d, "1\t100\tbnd_y\tA\tA[2:500[\t.\t.\tSVTYPE=BND"),
		decodeLine(t, d, "2\t500\tbnd_y\tT\tT[1:100[\t.\t.\tSVTYPE=BND"),
	}
	skew[1].Line = 2
	vs = v.ValidateSet(skew)
	if findViolation(vs, "inconsistent orientations") == nil {
		t.Errorf("orientation mismatch not flagged: %v", vs)
	}

	// The mate record exists but none of its breakends point back.
	oneway := []*Record{
		decodeLine(t, d, "1\t100\tbnd_z\tA\tA[2:500[\t.\t.\tSVTYPE=BND"),
		decodeLine(t, d, "2\t500\tbnd_z\tT\tT[3:900[\t.\t.\tSVTYPE=BND"),
	}
	oneway[1].Line = 2
	vs = v.ValidateSet(oneway)
	if findViolation(vs, "no breakend there points back") == nil {
		t.Errorf("one-way adjacency not flagged: %v", vs)
	}

	// CIPOS widens the locus match for imprecise mates.
	fuzzy := []*Record{
		decodeLine(t, d, "1\t100\tbnd_f\tA\tA[2:530[\t.\t.\tSVTYPE=BND;CIPOS=-50,50"),
		decodeLine(t, d, "2\t500\tbnd_f\tT\t]1:100]T\t.\t.\tSVTYPE=BND;CIPOS=-50,50"),
	}
	fuzzy[1].Line = 2
	vs = v.ValidateSet(fuzzy)
	if findViolation(vs, "points back") != nil || findViolation(vs, "inconsistent orientations") != nil {
		t.Errorf("pair within CIPOS tolerance flagged: %v", vs)
	}
}

func TestValidateSet_Fixture(t *testing.T) {
	f, err := Open("testdata/breakends.vcf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	records, err := f.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	v := NewValidator(f.Schema())
	for _, r := range records {
		if vs := v.ValidateRecord(r); len(vs) != 0 {
			t.Errorf("line %d: %v", r.Line, vs)
		}
	}

	vs := v.ValidateSet(records)
	if findViolation(vs, `ID "a_left_a_right_fwd" is used by 2 records`) == nil {
		t.Errorf("shared breakend event ID not reported: %v", vs)
	}
	if findViolation(vs, "position 9:99984165 is shared by 2 records") == nil {
		t.Errorf("shared position not reported: %v", vs)
	}
	// The mates of these breakends live outside the file; with no
	// candidate at the mate locus there is nothing to check.
	if findViolation(vs, "points back") != nil {
		t.Errorf("absent mates flagged: %v", vs)
	}
}
