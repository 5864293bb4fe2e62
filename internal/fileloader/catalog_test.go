package fileloader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestCatalog(t *testing.T, index string) ([]parsedEntry, []string, error) {
	t.Helper()
	return parseCatalog(strings.NewReader(index), "01.cat", nil, "01.dat")
}

func TestParseCatalog_OffsetsAccumulate(t *testing.T) {
	index := "a.xml 5 1000 hash\n" +
		"dir/b.xml 7 1000 hash\n" +
		"c.xml 3 1000 hash\n"

	entries, problems, err := parseTestCatalog(t, index)
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, entries, 3)

	assert.Equal(t, "a.xml", entries[0].entry.name)
	assert.Equal(t, int64(0), entries[0].entry.offset)
	assert.Equal(t, int64(5), entries[0].entry.size)

	assert.Equal(t, []string{"dir"}, entries[1].dir)
	assert.Equal(t, "b.xml", entries[1].entry.name)
	assert.Equal(t, int64(5), entries[1].entry.offset)

	assert.Equal(t, int64(12), entries[2].entry.offset)
	assert.Equal(t, "01.dat", entries[2].entry.datPath)
}

func TestParseCatalog_PathWithSpaces(t *testing.T) {
	entries, _, err := parseTestCatalog(t, "dir/my file.xml 4 1000 hash\n")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, []string{"dir"}, entries[0].dir)
	assert.Equal(t, "my file.xml", entries[0].entry.name)
}

func TestParseCatalog_LowercasesEntries(t *testing.T) {
	entries, _, err := parseTestCatalog(t, "DIR/File.XML 2 1000 hash\n")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, []string{"dir"}, entries[0].dir)
	assert.Equal(t, "file.xml", entries[0].entry.name)
}

func TestParseCatalog_MalformedLineRejectsWholeIndex(t *testing.T) {
	index := "a.xml 5 1000 hash\n" +
		"not enough\n"

	entries, _, err := parseTestCatalog(t, index)
	assert.ErrorIs(t, err, ErrMalformedIndex)
	assert.Nil(t, entries)
}

func TestParseCatalog_BadSizeRejectsWholeIndex(t *testing.T) {
	for _, index := range []string{
		"a.xml five 1000 hash\n",
		"a.xml -5 1000 hash\n",
	} {
		entries, _, err := parseTestCatalog(t, index)
		assert.ErrorIs(t, err, ErrMalformedIndex, index)
		assert.Nil(t, entries, index)
	}
}

func TestParseCatalog_EmptyPathSkippedButOffsetKept(t *testing.T) {
	index := "// 5 1000 hash\n" +
		"b.xml 3 1000 hash\n"

	entries, problems, err := parseTestCatalog(t, index)
	require.NoError(t, err)
	assert.Len(t, problems, 1)
	require.Len(t, entries, 1)

	// The skipped entry still occupies its bytes in the dat blob.
	assert.Equal(t, "b.xml", entries[0].entry.name)
	assert.Equal(t, int64(5), entries[0].entry.offset)
}

func TestParseCatalog_BlankLinesIgnored(t *testing.T) {
	entries, problems, err := parseTestCatalog(t, "\na.xml 5 1000 hash\n\n")
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Len(t, entries, 1)
}
