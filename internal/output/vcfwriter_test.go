package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfcompare/internal/vcf"
)

func TestVCFWriter_RoundTrip(t *testing.T) {
	headerLines := []string{
		"##fileformat=VCFv4.1",
		`##INFO=<ID=DP,Number=1,Type=Integer,Description="Total depth">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	}
	s, err := vcf.ParseHeader(headerLines)
	require.NoError(t, err)

	d := vcf.NewDecoder(s)
	dataLines := []string{
		"1\t100\trs1\tG\tA\t30\tPASS\tDP=12",
		"2\t200\t.\tC\tT\t.\t.\t.",
	}
	var records []*vcf.Record
	for i, line := range dataLines {
		r, err := d.DecodeLine(line, i+4)
		require.NoError(t, err)
		records = append(records, r)
	}

	var buf bytes.Buffer
	vw := NewVCFWriter(&buf, headerLines)
	require.NoError(t, vw.WriteHeader())
	require.NoError(t, vw.WriteRecords(records))
	require.NoError(t, vw.Flush())

	assert.Equal(t, 2, vw.Records())

	want := "##fileformat=VCFv4.1\n" +
		`##INFO=<ID=DP,Number=1,Type=Integer,Description="Total depth">` + "\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t100\trs1\tG\tA\t30\tPASS\tDP=12\n" +
		"2\t200\t.\tC\tT\t.\t.\t.\n"
	assert.Equal(t, want, buf.String())
}

func TestVCFWriter_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	vw := NewVCFWriter(&buf, []string{"##fileformat=VCFv4.1", "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"})
	require.NoError(t, vw.WriteHeader())
	require.NoError(t, vw.Flush())

	assert.Zero(t, vw.Records())
	assert.Equal(t, "##fileformat=VCFv4.1\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n", buf.String())
}
