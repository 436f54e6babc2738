// Package vcf parses, validates, and re-encodes Variant Call Format
// files, including structural-variant breakend notation.
package vcf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Category identifies which header section a declaration belongs to.
type Category string

const (
	CategoryInfo   Category = "INFO"
	CategoryFormat Category = "FORMAT"
	CategoryFilter Category = "FILTER"
	CategoryAlt    Category = "ALT"
	CategorySample Category = "SAMPLE"
	CategoryContig Category = "contig"
)

// structuredCategories are the keywords whose <...> bodies are parsed
// into declarations. Any other keyword is kept as an opaque meta line.
var structuredCategories = map[string]Category{
	"INFO":   CategoryInfo,
	"FORMAT": CategoryFormat,
	"FILTER": CategoryFilter,
	"ALT":    CategoryAlt,
	"SAMPLE": CategorySample,
	"contig": CategoryContig,
}

// MetaDeclaration is one parsed structured header line. Number and Type
// are meaningful for INFO and FORMAT declarations only. Fields holds
// every KEY=value attribute as written, including ones with no typed
// counterpart (Source, Version, assembly, length).
type MetaDeclaration struct {
	Category    Category
	ID          string
	Number      int
	Type        Type
	Description string
	Fields      map[string]string
}

// ContigLength returns the declared length attribute of a contig
// declaration, if present and numeric.
func (d *MetaDeclaration) ContigLength() (int64, bool) {
	s, ok := d.Fields["length"]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// GenericMeta is an unstructured ##key=value header line, kept verbatim
// for forward compatibility.
type GenericMeta struct {
	Key   string
	Value string
}

// Schema is the decoded header block of a VCF file. It is built once
// by ParseHeader and never modified afterwards; all decoding holds a
// read-only reference to it.
type Schema struct {
	fileFormat string
	decls      map[Category]map[string]*MetaDeclaration
	generic    []GenericMeta
	samples    []string
	hasFormat  bool
	lines      []string
}

// ParseHeader builds a Schema from the ordered header lines of a file:
// zero or more ## meta lines followed by exactly one #CHROM column
// header. Line numbers in errors are 1-based positions within lines.
func ParseHeader(lines []string) (*Schema, error) {
	s := &Schema{
		decls: make(map[Category]map[string]*MetaDeclaration),
		lines: append([]string(nil), lines...),
	}

	sawColumns := false
	for i, line := range lines {
		num := i + 1
		switch {
		case sawColumns:
			return nil, &MalformedHeaderError{Line: num, Message: "header line after #CHROM column header"}
		case strings.HasPrefix(line, "##"):
			if err := s.parseMetaLine(line, num); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "#"):
			if err := s.parseColumnHeader(line, num); err != nil {
				return nil, err
			}
			sawColumns = true
		default:
			return nil, &MalformedHeaderError{Line: num, Message: fmt.Sprintf("expected ## meta line or #CHROM column header, got %q", truncate(line, 40))}
		}
	}
	if !sawColumns {
		return nil, &MalformedHeaderError{Line: len(lines), Message: "no #CHROM column header found"}
	}
	return s, nil
}

// parseMetaLine handles one ##key=value line.
func (s *Schema) parseMetaLine(line string, num int) error {
	body := line[2:]
	eq := strings.IndexByte(body, '=')
	if eq <= 0 {
		return &MalformedHeaderError{Line: num, Message: "meta line is not key=value"}
	}
	key, value := body[:eq], body[eq+1:]

	cat, structured := structuredCategories[key]
	if !structured {
		if key == "fileformat" && s.fileFormat == "" {
			s.fileFormat = value
		}
		s.generic = append(s.generic, GenericMeta{Key: key, Value: value})
		return nil
	}

	if !strings.HasPrefix(value, "<") || !strings.HasSuffix(value, ">") {
		return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("%s declaration must be <...> bracketed", key)}
	}
	pairs, err := splitMetaPairs(value[1 : len(value)-1])
	if err != nil {
		return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("%s declaration: %v", key, err)}
	}

	decl, err := buildDeclaration(cat, pairs)
	if err != nil {
		return &MalformedHeaderError{Line: num, Message: err.Error()}
	}

	byID := s.decls[cat]
	if byID == nil {
		byID = make(map[string]*MetaDeclaration)
		s.decls[cat] = byID
	}
	if _, dup := byID[decl.ID]; dup {
		return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("duplicate %s ID %q", cat, decl.ID)}
	}
	byID[decl.ID] = decl
	return nil
}

type metaPair struct {
	key   string
	value string
}

// splitMetaPairs scans a bracketed declaration body into KEY=value
// pairs. String values may be double-quoted and may contain commas and
// escaped quotes inside the quotes, so this is a character scan rather
// than a split on commas.
func splitMetaPairs(body string) ([]metaPair, error) {
	var pairs []metaPair
	var key, value strings.Builder
	inKey := true
	inQuotes := false
	escaped := false

	flush := func() error {
		if inKey {
			if strings.TrimSpace(key.String()) == "" {
				return nil
			}
			return fmt.Errorf("attribute %q has no value", key.String())
		}
		pairs = append(pairs, metaPair{key: key.String(), value: value.String()})
		key.Reset()
		value.Reset()
		inKey = true
		return nil
	}

	for _, r := range body {
		switch {
		case escaped:
			value.WriteRune(r)
			escaped = false
		case inQuotes && r == '\\':
			escaped = true
		case !inKey && r == '"':
			inQuotes = !inQuotes
		case inKey && r == '=':
			inKey = false
		case !inQuotes && r == ',':
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if inKey {
				key.WriteRune(r)
			} else {
				value.WriteRune(r)
			}
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted value")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// buildDeclaration validates the attribute pairs for a category and
// produces the declaration.
func buildDeclaration(cat Category, pairs []metaPair) (*MetaDeclaration, error) {
	d := &MetaDeclaration{Category: cat, Fields: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		d.Fields[p.key] = p.value
		switch p.key {
		case "ID":
			d.ID = p.value
		case "Description":
			d.Description = p.value
		}
	}
	if d.ID == "" {
		return nil, fmt.Errorf("%s declaration missing ID", cat)
	}

	if cat != CategoryInfo && cat != CategoryFormat {
		return d, nil
	}

	numStr, ok := d.Fields["Number"]
	if !ok {
		return nil, fmt.Errorf("%s %s missing Number", cat, d.ID)
	}
	d.Number, ok = ParseNumber(numStr)
	if !ok {
		return nil, fmt.Errorf("%s %s has invalid Number %q", cat, d.ID, numStr)
	}

	typeStr, ok := d.Fields["Type"]
	if !ok {
		return nil, fmt.Errorf("%s %s missing Type", cat, d.ID)
	}
	d.Type, ok = ParseType(typeStr)
	if !ok {
		return nil, fmt.Errorf("%s %s has invalid Type %q", cat, d.ID, typeStr)
	}

	// Flags carry no value, so their declared width must be zero, and
	// a zero width only makes sense for a flag.
	if d.Type == TypeFlag {
		if cat == CategoryFormat {
			return nil, fmt.Errorf("FORMAT %s may not have Type Flag", d.ID)
		}
		if d.Number != 0 {
			return nil, fmt.Errorf("INFO %s has Type Flag but Number %s", d.ID, FormatNumber(d.Number))
		}
	} else if d.Number == 0 {
		return nil, fmt.Errorf("%s %s has Number 0 but Type %s", cat, d.ID, d.Type)
	}

	return d, nil
}

var fixedColumns = [...]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

// parseColumnHeader validates the #CHROM line and captures sample
// names. The 8 fixed columns must match exactly; a 9th column, if
// present, must be FORMAT and is followed by the sample names.
func (s *Schema) parseColumnHeader(line string, num int) error {
	cols := strings.Split(line, "\t")
	if len(cols) < len(fixedColumns) {
		return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("column header has %d columns, want at least %d", len(cols), len(fixedColumns))}
	}
	for i, want := range fixedColumns {
		if cols[i] != want {
			return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("column %d is %q, want %q", i+1, cols[i], want)}
		}
	}
	if len(cols) == len(fixedColumns) {
		return nil
	}
	if cols[8] != "FORMAT" {
		return &MalformedHeaderError{Line: num, Message: fmt.Sprintf("column 9 is %q, want \"FORMAT\"", cols[8])}
	}
	s.hasFormat = true
	s.samples = cols[9:]
	return nil
}

// FileFormat returns the ##fileformat value, or "" if absent.
func (s *Schema) FileFormat() string { return s.fileFormat }

// Samples returns the sample names from the column header, in order.
func (s *Schema) Samples() []string { return s.samples }

// HasFormatColumn reports whether the column header declares a FORMAT
// column. It may be true with zero samples.
func (s *Schema) HasFormatColumn() bool { return s.hasFormat }

// HeaderLines returns the raw header lines as read, including the
// column header, for re-emission.
func (s *Schema) HeaderLines() []string { return s.lines }

// Generic returns the unstructured meta lines in input order.
func (s *Schema) Generic() []GenericMeta { return s.generic }

// Lookup finds a declaration by category and ID.
func (s *Schema) Lookup(cat Category, id string) (*MetaDeclaration, bool) {
	d, ok := s.decls[cat][id]
	return d, ok
}

// Info finds an INFO declaration.
func (s *Schema) Info(id string) (*MetaDeclaration, bool) { return s.Lookup(CategoryInfo, id) }

// Format finds a FORMAT declaration.
func (s *Schema) Format(id string) (*MetaDeclaration, bool) { return s.Lookup(CategoryFormat, id) }

// Filter finds a FILTER declaration.
func (s *Schema) Filter(id string) (*MetaDeclaration, bool) { return s.Lookup(CategoryFilter, id) }

// Alt finds a symbolic ALT declaration.
func (s *Schema) Alt(id string) (*MetaDeclaration, bool) { return s.Lookup(CategoryAlt, id) }

// Contig finds a contig declaration.
func (s *Schema) Contig(id string) (*MetaDeclaration, bool) { return s.Lookup(CategoryContig, id) }

// IDs returns the declared IDs in a category, sorted.
func (s *Schema) IDs(cat Category) []string {
	byID := s.decls[cat]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
