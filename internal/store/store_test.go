package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfcompare/internal/vcf"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSchema(t *testing.T) *vcf.Schema {
	t.Helper()
	s, err := vcf.ParseHeader([]string{
		"##fileformat=VCFv4.1",
		`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">`,
		`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant">`,
		`##INFO=<ID=CIPOS,Number=2,Type=Integer,Description="Confidence interval around POS">`,
		`##FILTER=<ID=q10,Description="Quality below 10">`,
		`##FILTER=<ID=s50,Description="Less than 50% of samples have data">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	})
	require.NoError(t, err)
	return s
}

func decode(t *testing.T, lines ...string) []*vcf.Record {
	t.Helper()
	d := vcf.NewDecoder(testSchema(t))
	records := make([]*vcf.Record, len(lines))
	for i, line := range lines {
		r, err := d.DecodeLine(line, i+1)
		require.NoError(t, err, "line %d", i+1)
		records[i] = r
	}
	return records
}

func TestRowsFromRecord(t *testing.T) {
	r := decode(t, "1\t100\trs1\tG\tA,T\t30\tPASS\t.")[0]
	rows := RowsFromRecord(r)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0].Chrom)
	assert.Equal(t, int64(100), rows[0].Pos)
	assert.Equal(t, "rs1", rows[0].ID)
	assert.Equal(t, "G", rows[0].Ref)
	assert.Equal(t, "A", rows[0].Alt)
	assert.Equal(t, "T", rows[1].Alt)
	assert.True(t, rows[0].HasQual)
	assert.Equal(t, 30.0, rows[0].Qual)
	assert.Equal(t, "PASS", rows[0].Filter)
	assert.Equal(t, int64(100), rows[0].IntervalStart)
	assert.Equal(t, int64(101), rows[0].IntervalEnd)
}

func TestRowsFromRecord_Breakend(t *testing.T) {
	r := decode(t, "9\t99984160\tbnd_a\tA\tA[9:84326899[\t29\tPASS\tSVTYPE=BND;CIPOS=-125,125")[0]
	rows := RowsFromRecord(r)
	require.Len(t, rows, 1)

	assert.Equal(t, "BND", rows[0].SVType)
	assert.Equal(t, "9", rows[0].MateChrom)
	assert.Equal(t, int64(84326899), rows[0].MatePos)
	assert.Equal(t, int64(99984035), rows[0].IntervalStart)
	assert.Equal(t, int64(99984286), rows[0].IntervalEnd)
}

func TestRowsFromRecord_Monomorphic(t *testing.T) {
	r := decode(t, "1\t100\t.\tG\t.\t.\t.\t.")[0]
	rows := RowsFromRecord(r)
	require.Len(t, rows, 1)
	assert.Equal(t, ".", rows[0].Alt)
	assert.False(t, rows[0].HasQual)
	assert.Equal(t, ".", rows[0].Filter)
}

func TestRowsFromRecord_FailedFilters(t *testing.T) {
	r := decode(t, "1\t100\t.\tG\tA\t.\tq10;s50\t.")[0]
	rows := RowsFromRecord(r)
	require.Len(t, rows, 1)
	assert.Equal(t, "q10;s50", rows[0].Filter)
}

func TestStore_WriteAndCount(t *testing.T) {
	s := openInMemory(t)

	records := decode(t,
		"1\t100\trs1\tG\tA,T\t30\tPASS\t.",
		"2\t200\t.\tGTC\tG\t.\t.\t.",
	)
	n, err := s.WriteRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	total, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestStore_WriteDeduplicates(t *testing.T) {
	s := openInMemory(t)

	records := decode(t,
		"1\t100\trs1\tG\tA\t30\tPASS\t.",
		"1\t100\trs1\tG\tA\t30\tPASS\t.",
	)
	n, err := s.WriteRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_WriteEmpty(t *testing.T) {
	s := openInMemory(t)
	n, err := s.WriteRecords(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_QueryRegion(t *testing.T) {
	s := openInMemory(t)

	records := decode(t,
		"1\t100\tsnv\tG\tA\t30\tPASS\t.",
		"1\t200\tindel\tGTC\tG\t.\t.\t.",
		"2\t100\tother\tG\tA\t.\t.\t.",
	)
	_, err := s.WriteRecords(records)
	require.NoError(t, err)

	// The SNV interval is [100,101]; a query ending at 99 misses it.
	rows, err := s.QueryRegion("1", 50, 99)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.QueryRegion("1", 100, 100)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "snv", rows[0].ID)

	// The indel interval is widened by the match window, so a nearby
	// region still finds it.
	rows, err = s.QueryRegion("1", 240, 260)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "indel", rows[0].ID)

	// Both on chrom 1, in position order; chrom 2 stays out.
	rows, err = s.QueryRegion("1", 1, 1_000_000)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "snv", rows[0].ID)
	assert.Equal(t, "indel", rows[1].ID)
}

func TestStore_LookupID(t *testing.T) {
	s := openInMemory(t)

	records := decode(t,
		"1\t100\trs1\tG\tA,T\t30\tPASS\t.",
		"2\t200\trs2\tC\tG\t.\t.\t.",
	)
	_, err := s.WriteRecords(records)
	require.NoError(t, err)

	rows, err := s.LookupID("rs1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Alt)
	assert.Equal(t, "T", rows[1].Alt)

	rows, err = s.LookupID("absent")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_QualAndMateRoundTrip(t *testing.T) {
	s := openInMemory(t)

	records := decode(t,
		"1\t100\tnoqual\tG\tA\t.\t.\t.",
		"9\t99984160\tbnd\tA\tA[9:84326899[\t29\tPASS\tSVTYPE=BND",
	)
	_, err := s.WriteRecords(records)
	require.NoError(t, err)

	rows, err := s.LookupID("noqual")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasQual)
	assert.Empty(t, rows[0].MateChrom)

	rows, err = s.LookupID("bnd")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].HasQual)
	assert.Equal(t, 29.0, rows[0].Qual)
	assert.Equal(t, "9", rows[0].MateChrom)
	assert.Equal(t, int64(84326899), rows[0].MatePos)
	assert.Equal(t, "BND", rows[0].SVType)
}

func TestStore_Clear(t *testing.T) {
	s := openInMemory(t)

	_, err := s.WriteRecords(decode(t, "1\t100\trs1\tG\tA\t30\tPASS\t."))
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	total, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_OnDisk(t *testing.T) {
	path := t.TempDir() + "/records.duckdb"

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.WriteRecords(decode(t, "1\t100\trs1\tG\tA\t30\tPASS\t."))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen and find the row still there.
	s2, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s2.Close() })

	total, err := s2.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
