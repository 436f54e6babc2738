package output

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vcfcompare/internal/vcf"
)

// ReportWriter writes validation findings as machine-readable
// tab-delimited rows, one per violation or undecodable line.
type ReportWriter struct {
	w        *bufio.Writer
	errors   int
	warnings int
}

// NewReportWriter creates a new validation report writer.
func NewReportWriter(w io.Writer) *ReportWriter {
	return &ReportWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header line.
func (rw *ReportWriter) WriteHeader() error {
	_, err := rw.w.WriteString("line\tseverity\tmessage\n")
	return err
}

// WriteViolation writes one validation finding.
func (rw *ReportWriter) WriteViolation(v vcf.Violation) error {
	if v.Severity == vcf.SeverityError {
		rw.errors++
	} else {
		rw.warnings++
	}
	return rw.writeRow(v.Line, v.Severity.String(), v.Message)
}

// WriteDecodeError writes one line that could not be decoded at all.
// The decode error text already carries the line number; the line
// column keeps the report sortable.
func (rw *ReportWriter) WriteDecodeError(line int, err error) error {
	rw.errors++
	return rw.writeRow(line, "error", err.Error())
}

// WriteReport writes the header followed by every decode error and
// validation finding, merged and sorted by line with errors before
// warnings on the same line.
func (rw *ReportWriter) WriteReport(decodeErrs []error, violations []vcf.Violation) error {
	rows := make([]vcf.Violation, 0, len(decodeErrs)+len(violations))
	for _, err := range decodeErrs {
		rows = append(rows, vcf.Violation{
			Line:     vcf.LineOf(err),
			Severity: vcf.SeverityError,
			Message:  err.Error(),
		})
	}
	rows = append(rows, violations...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Line != rows[j].Line {
			return rows[i].Line < rows[j].Line
		}
		return rows[i].Severity > rows[j].Severity
	})
	if err := rw.WriteHeader(); err != nil {
		return err
	}
	for _, v := range rows {
		if err := rw.WriteViolation(v); err != nil {
			return err
		}
	}
	return rw.Flush()
}

// Errors returns the number of error rows written.
func (rw *ReportWriter) Errors() int { return rw.errors }

// Warnings returns the number of warning rows written.
func (rw *ReportWriter) Warnings() int { return rw.warnings }

// Flush flushes any buffered data to the underlying writer.
func (rw *ReportWriter) Flush() error {
	return rw.w.Flush()
}

func (rw *ReportWriter) writeRow(line int, severity, message string) error {
	values := []string{
		strconv.Itoa(line),
		severity,
		strings.ReplaceAll(message, "\t", " "),
	}
	_, err := rw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}
