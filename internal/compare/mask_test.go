package compare

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMaskFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMask(t *testing.T) {
	path := writeMaskFile(t, "mask.bed",
		"# centromeres and gaps",
		"track name=mask description=\"excluded regions\"",
		"browser position chr1:1-1000",
		"chr1\t99\t200",
		"1\t150\t300\tgap1\t0\t+",
		"2 500 600",
		"",
	)

	m, err := LoadMask(path)
	require.NoError(t, err)

	// chr1 rows overlap and merge; chrom 2 stands alone.
	assert.Equal(t, 2, m.Size())

	// BED start 99 is 1-based position 100.
	assert.False(t, m.Contains("1", 99))
	assert.True(t, m.Contains("1", 100))
	assert.True(t, m.Contains("chr1", 250))
	assert.True(t, m.Contains("1", 300))
	assert.False(t, m.Contains("1", 301))

	assert.False(t, m.Contains("2", 500))
	assert.True(t, m.Contains("2", 501))
	assert.True(t, m.Contains("2", 600))
	assert.False(t, m.Contains("2", 601))

	assert.False(t, m.Contains("3", 100))
}

func TestLoadMask_MergeAdjacent(t *testing.T) {
	path := writeMaskFile(t, "mask.bed",
		"1\t9\t20",
		"1\t20\t30",
		"1\t100\t200",
	)

	m, err := LoadMask(path)
	require.NoError(t, err)

	// [10,20] and [21,30] touch and coalesce.
	assert.Equal(t, 2, m.Size())
	assert.True(t, m.Contains("1", 25))
	assert.False(t, m.Contains("1", 50))
}

func TestLoadMask_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("1\t10\t20\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	m, err := LoadMask(path)
	require.NoError(t, err)
	assert.True(t, m.Contains("1", 15))
	assert.False(t, m.Contains("1", 10))
}

func TestLoadMask_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"short row", "1\t10", "at least 3 columns"},
		{"bad start", "1\tx\t20", "invalid start"},
		{"bad end", "1\t10\ty", "invalid end"},
		{"inverted", "1\t30\t20", "end 20 before start 30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMaskFile(t, "bad.bed", tt.line)
			_, err := LoadMask(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestLoadMask_Missing(t *testing.T) {
	_, err := LoadMask(filepath.Join(t.TempDir(), "absent.bed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open mask file")
}
