// Package output provides writers for comparison summaries, validation
// reports, and VCF re-emission.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vcfcompare/internal/compare"
)

// SummaryWriter writes the per-class comparison table in tab-delimited
// format.
type SummaryWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewSummaryWriter creates a new summary table writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"vtype",
			"A_only",
			"A_alt",
			"B_only",
			"B_alt",
			"shared",
			"agree_somatic",
			"agree_germline",
			"disagree_somatic",
			"agree_pass",
			"agree_fail",
			"disagree_pass",
			"sum_score",
		},
	}
}

// WriteHeader writes the column header line.
func (sw *SummaryWriter) WriteHeader() error {
	_, err := sw.w.WriteString(strings.Join(sw.columns, "\t") + "\n")
	return err
}

// WriteRow writes one class's summary line.
func (sw *SummaryWriter) WriteRow(row compare.SummaryRow) error {
	values := []string{
		string(row.Class),
		strconv.Itoa(row.AOnly),
		strconv.Itoa(row.AAlt),
		strconv.Itoa(row.BOnly),
		strconv.Itoa(row.BAlt),
		strconv.Itoa(row.Shared),
		strconv.Itoa(row.AgreeSomatic),
		strconv.Itoa(row.AgreeGermline),
		strconv.Itoa(row.DisagreeSomatic),
		strconv.Itoa(row.AgreePass),
		strconv.Itoa(row.AgreeFail),
		strconv.Itoa(row.DisagreePass),
		strconv.FormatFloat(row.SumScore, 'g', -1, 64),
	}
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every row.
func (sw *SummaryWriter) WriteAll(rows []compare.SummaryRow) error {
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := sw.WriteRow(row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SummaryWriter) Flush() error {
	return sw.w.Flush()
}
