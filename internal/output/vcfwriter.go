package output

import (
	"bufio"
	"io"

	"github.com/inodb/vcfcompare/internal/vcf"
)

// VCFWriter re-emits records as a VCF file, replaying the input header
// block so the output is interpretable with the same schema.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original header lines including #CHROM
	records     int
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// WriteHeader writes the original header lines.
func (vw *VCFWriter) WriteHeader() error {
	for _, line := range vw.headerLines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes one record as a canonical VCF data line.
func (vw *VCFWriter) WriteRecord(r *vcf.Record) error {
	if _, err := vw.w.WriteString(r.String()); err != nil {
		return err
	}
	vw.records++
	return vw.w.WriteByte('\n')
}

// WriteRecords writes a sequence of records.
func (vw *VCFWriter) WriteRecords(records []*vcf.Record) error {
	for _, r := range records {
		if err := vw.WriteRecord(r); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the number of records written.
func (vw *VCFWriter) Records() int { return vw.records }

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
