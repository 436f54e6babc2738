package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfcompare/internal/compare"
)

func TestSummaryWriter_WriteAll(t *testing.T) {
	rows := []compare.SummaryRow{
		{
			Class:        compare.ClassSNV,
			AOnly:        3,
			BOnly:        1,
			Shared:       12,
			AgreeSomatic: 4,
			AgreePass:    10,
			DisagreePass: 2,
			SumScore:     12,
		},
		{
			Class:    compare.ClassSV,
			AAlt:     1,
			BAlt:     2,
			Shared:   5,
			SumScore: 4.5,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewSummaryWriter(&buf).WriteAll(rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"vtype\tA_only\tA_alt\tB_only\tB_alt\tshared\t"+
			"agree_somatic\tagree_germline\tdisagree_somatic\t"+
			"agree_pass\tagree_fail\tdisagree_pass\tsum_score",
		lines[0])
	assert.Equal(t, "SNV\t3\t0\t1\t0\t12\t4\t0\t0\t10\t0\t2\t12", lines[1])
	assert.Equal(t, "SV\t0\t1\t0\t2\t5\t0\t0\t0\t0\t0\t0\t4.5", lines[2])
}

func TestSummaryWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryWriter(&buf).WriteAll(nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.True(t, strings.HasPrefix(buf.String(), "vtype\t"))
}
